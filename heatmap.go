package main

import (
	"fmt"
	"strings"
	"time"
)

const (
	daysPerWeek = 7
	cellWidth   = 2 // glyph + separating space
)

// ContributionDay is one calendar day's contribution count.
type ContributionDay struct {
	Date  time.Time
	Count int
}

// ContributionWeek holds up to seven days; boundary weeks at the edges of the
// 365-day window may hold fewer.
type ContributionWeek struct {
	FirstDay time.Time
	Days     []ContributionDay
}

// ContributionCalendar is a year of contribution activity, weeks in
// chronological order.
type ContributionCalendar struct {
	Total int
	Weeks []ContributionWeek
}

// Glyphs per intensity level; colors come from the palette.
var levelGlyphs = [5]string{"·", "▪", "▪", "■", "■"}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var weekdayLetters = [daysPerWeek]string{"S", "M", "T", "W", "T", "F", "S"}

// contributionLevel buckets a day count into one of five intensity levels
// using quartile thresholds of the busiest day. Boundaries are inclusive on
// the lower bucket: a count equal to q1 is level 1, not level 2.
func contributionLevel(count, q1, q2, q3 int) int {
	switch {
	case count == 0:
		return 0
	case count <= q1:
		return 1
	case count <= q2:
		return 2
	case count <= q3:
		return 3
	default:
		return 4
	}
}

// quartiles derives the three bucket thresholds from the maximum observed
// day count. Integer division, with floors so the buckets stay ordered for
// tiny maxima.
func quartiles(maxCount int) (q1, q2, q3 int) {
	q1 = max(1, maxCount/4)
	q2 = max(2, maxCount/2)
	q3 = max(3, 3*maxCount/4)
	return
}

// renderHeatmap turns a contribution calendar into printable lines: a total
// header, a month-label row, seven weekday rows, and a legend. An absent
// calendar and a present-but-empty one produce different single-line
// messages.
func renderHeatmap(username string, cal *ContributionCalendar, width int, pal Palette) []string {
	if cal == nil {
		return []string{pal.Error.Render("No contribution data available.")}
	}
	if cal.Total == 0 || len(cal.Weeks) == 0 {
		return []string{pal.Warn.Render(fmt.Sprintf("No contributions found for user '%s' in the past year.", username))}
	}

	maxCount := 0
	haveDays := false
	for _, week := range cal.Weeks {
		for _, day := range week.Days {
			haveDays = true
			if day.Count > maxCount {
				maxCount = day.Count
			}
		}
	}
	if !haveDays {
		return []string{pal.Warn.Render(fmt.Sprintf("No contribution data found for '%s' in the past year.", username))}
	}

	q1, q2, q3 := quartiles(maxCount)

	glyphs := [5]string{}
	for i, g := range levelGlyphs {
		glyphs[i] = pal.Heatmap[i].Render(g)
	}

	// Re-project week-major input into day-major rows. Weekdays missing from
	// a partial boundary week become blank cells, not zero-intensity glyphs.
	rows := [daysPerWeek][]string{}
	for _, week := range cal.Weeks {
		var present [daysPerWeek]bool
		var counts [daysPerWeek]int
		for _, day := range week.Days {
			wd := int(day.Date.Weekday()) // Sunday=0
			present[wd] = true
			counts[wd] = day.Count
		}
		for wd := 0; wd < daysPerWeek; wd++ {
			if present[wd] {
				rows[wd] = append(rows[wd], glyphs[contributionLevel(counts[wd], q1, q2, q3)])
			} else {
				rows[wd] = append(rows[wd], " ")
			}
		}
	}

	lines := []string{
		pal.Accent.Render("Contributions:") + " " + pal.Label.Render(fmt.Sprintf("%d", cal.Total)),
		renderMonthRow(cal.Weeks, pal),
	}
	for wd := 0; wd < daysPerWeek; wd++ {
		lines = append(lines, pal.Label.Render(weekdayLetters[wd])+" "+strings.Join(rows[wd], " "))
	}

	legend := fmt.Sprintf("%s None  %s Few  %s Some  %s Many  %s Lots",
		glyphs[0], glyphs[1], glyphs[2], glyphs[3], glyphs[4])
	lines = append(lines, legend)

	return lines
}

// renderMonthRow builds the label row above the grid: whenever the month of a
// week's first tracked day changes, its 3-letter abbreviation is written into
// a rune buffer at that week's column offset (2 columns per week). Labels of
// months close together may overwrite each other's tails; typical 52-week
// calendars keep them well apart.
func renderMonthRow(weeks []ContributionWeek, pal Palette) string {
	buf := make([]rune, len(weeks)*cellWidth)
	for i := range buf {
		buf[i] = ' '
	}

	currentMonth := time.Month(0)
	for weekIdx, week := range weeks {
		if len(week.Days) == 0 {
			continue
		}
		month := week.Days[0].Date.Month()
		if month == currentMonth {
			continue
		}
		currentMonth = month

		pos := weekIdx * cellWidth
		for i, ch := range monthNames[month-1] {
			if pos+i < len(buf) {
				buf[pos+i] = ch
			}
		}
	}

	// Two leading spaces line the row up with the weekday-letter prefix.
	return "  " + pal.Link.Render(strings.TrimRight(string(buf), " "))
}
