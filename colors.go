package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color is one of the closed set of terminal colors ghfetch knows how to
// render. Unknown color names are rejected at parse time instead of silently
// falling back to the terminal default.
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorLightBlue
	ColorLightRed
	ColorOrange
	ColorBlue
	ColorDarkGreen
	ColorLightGreen
)

// ANSI-256 palette indexes, one per Color. ColorReset has no entry and
// renders text unstyled.
var ansiCodes = map[Color]string{
	ColorRed:        "1",
	ColorGreen:      "149",
	ColorYellow:     "11",
	ColorLightBlue:  "45",
	ColorLightRed:   "9",
	ColorOrange:     "208",
	ColorBlue:       "21",
	ColorDarkGreen:  "22",
	ColorLightGreen: "118",
}

var colorNames = map[string]Color{
	"reset":       ColorReset,
	"red":         ColorRed,
	"green":       ColorGreen,
	"yellow":      ColorYellow,
	"light_blue":  ColorLightBlue,
	"light_red":   ColorLightRed,
	"orange":      ColorOrange,
	"blue":        ColorBlue,
	"dark_green":  ColorDarkGreen,
	"light_green": ColorLightGreen,
}

// ParseColor maps a color name from a theme file to a Color.
func ParseColor(name string) (Color, error) {
	c, ok := colorNames[name]
	if !ok {
		return ColorReset, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

// Render styles text in the given color using lipgloss.
func (c Color) Render(text string) string {
	code, ok := ansiCodes[c]
	if !ok {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Render(text)
}

// Palette assigns colors to the semantic slots the renderers use. A Palette
// is built once (defaults, optionally overridden by a theme file) and passed
// to each component; nothing mutates it afterwards.
type Palette struct {
	Accent  Color // titles, section headers, rules
	Label   Color // field labels, weekday letters
	Link    Color // month labels, fork counts
	Repo    Color // pinned repository names
	Error   Color
	Warn    Color
	Heatmap [5]Color // intensity levels 0..4
}

// DefaultPalette mirrors the colors the original githubfetch shipped with.
func DefaultPalette() Palette {
	return Palette{
		Accent:  ColorGreen,
		Label:   ColorYellow,
		Link:    ColorLightBlue,
		Repo:    ColorOrange,
		Error:   ColorRed,
		Warn:    ColorYellow,
		Heatmap: [5]Color{ColorReset, ColorLightGreen, ColorGreen, ColorGreen, ColorDarkGreen},
	}
}

// hyperlink wraps text in an OSC-8 escape so compatible terminals make it
// clickable.
func hyperlink(url, text string) string {
	return termenv.Hyperlink(url, text)
}
