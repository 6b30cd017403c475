package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
)

// formatProfile turns a profile plus an optional pinned-repository list into
// colorized, hyperlinked lines wrapped to width. It is pure: same inputs and
// width always produce the same lines.
func formatProfile(p *Profile, starred int, repos []PinnedRepo, width int, pal Palette) []string {
	website := p.Blog
	if website == "" {
		website = "N/A"
	}
	bio := p.Bio
	if bio == "" {
		bio = "N/A"
	}
	location := p.Location
	if location == "" {
		location = "Not Provided"
	}

	fields := []struct {
		label string
		value string
	}{
		{"Website", website},
		{"Repos", fmt.Sprintf("%d", p.PublicRepos)},
		{"Bio", bio},
		{"From", location},
		{"Followers", fmt.Sprintf("%d", p.Followers)},
		{"Following", fmt.Sprintf("%d", p.Following)},
		{"Starred", fmt.Sprintf("%d", starred)},
	}

	maxLabel := 0
	for _, f := range fields {
		if len(f.label) > maxLabel {
			maxLabel = len(f.label)
		}
	}
	// Label column: "Label:" left-padded with two extra columns, so wrapped
	// continuation lines indent by the same amount.
	labelCol := maxLabel + 2
	indent := strings.Repeat(" ", labelCol)

	var lines []string

	profileURL := "https://github.com/" + p.Login
	title := pal.Accent.Render(p.Login) + "@" + pal.Accent.Render("github")
	lines = append(lines, hyperlink(profileURL, title))
	lines = append(lines, pal.Accent.Render(strings.Repeat("-", len(p.Login)+7)))

	for _, f := range fields {
		label := pal.Label.Render(fmt.Sprintf("%-*s", labelCol, f.label+":"))

		switch {
		case f.label == "Website" && f.value != "N/A":
			url := f.value
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				url = "https://" + url
			}
			wrapped := wrapText(f.value, width)
			lines = append(lines, label+hyperlink(url, wrapped[0]))
			for _, l := range wrapped[1:] {
				lines = append(lines, indent+l)
			}
		case f.label == "Bio" && f.value != "N/A":
			wrapped := wrapText(f.value, width)
			lines = append(lines, label+wrapped[0])
			for _, l := range wrapped[1:] {
				lines = append(lines, indent+l)
			}
		default:
			lines = append(lines, label+f.value)
		}
	}

	if len(repos) > 0 {
		lines = append(lines, pal.Accent.Render("Pinned Repositories:"))
		for _, repo := range repos {
			dotColor := ColorReset
			if repo.HasLanguage {
				dotColor = pal.Accent
			}
			dot := dotColor.Render("●")

			owner := repo.Owner
			if owner == "" {
				owner = p.Login
			}
			repoURL := fmt.Sprintf("https://github.com/%s/%s", owner, repo.Name)
			name := hyperlink(repoURL, pal.Repo.Render(repo.Name))

			stars := pal.Label.Render(fmt.Sprintf("★ %d", repo.Stars))
			forks := pal.Link.Render(fmt.Sprintf("⑂ %d", repo.Forks))

			lines = append(lines, fmt.Sprintf(" %s %s (%s / %s)", dot, name, stars, forks))

			if repo.Description != "" {
				for _, l := range wrapText(repo.Description, width-3) {
					lines = append(lines, "   "+l)
				}
			}
		}
	}

	return lines
}

// wrapText word-wraps plain text to the given width. Tokens longer than the
// width pass through on their own line rather than being split.
func wrapText(s string, width int) []string {
	if width < 1 {
		return []string{s}
	}
	return strings.Split(wordwrap.String(s, width), "\n")
}

// trimTrailingBlank removes trailing lines that carry no printable content
// once escape sequences and whitespace are ignored.
func trimTrailingBlank(lines []string) []string {
	last := len(lines) - 1
	for last >= 0 && isBlank(lines[last]) {
		last--
	}
	return lines[:last+1]
}

// isBlank reports whether a line is empty aside from ANSI escapes and
// whitespace.
func isBlank(line string) bool {
	inSeq := false
	for _, r := range line {
		switch {
		case r == ansi.Marker:
			inSeq = true
		case inSeq:
			if ansi.IsTerminator(r) {
				inSeq = false
			}
		case !unicode.IsSpace(r):
			return false
		}
	}
	return true
}
