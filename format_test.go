package main

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

// stripAnsi drops CSI color sequences so assertions see printable content
// regardless of the color profile tests run under.
func stripAnsi(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case inSeq:
			if ansi.IsTerminator(r) {
				inSeq = false
			}
		case r == ansi.Marker:
			inSeq = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func plainLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = stripAnsi(line)
	}
	return out
}

func TestWrapTextWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
	}{
		{"short text", "hello", 20},
		{"wraps at words", "the quick brown fox jumps over the lazy dog", 10},
		{"exact fit", "abcde fghij", 5},
		{"single word per line", "one two three four", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, line := range wrapText(tt.input, tt.width) {
				if w := ansi.PrintableRuneWidth(line); w > tt.width {
					t.Errorf("wrapText(%q, %d) produced line %q of width %d", tt.input, tt.width, line, w)
				}
			}
		})
	}
}

func TestWrapTextUnbreakableToken(t *testing.T) {
	lines := wrapText("https://example.com/a/very/long/path", 10)
	found := false
	for _, line := range lines {
		if strings.Contains(line, "https://example.com/a/very/long/path") {
			found = true
		}
	}
	if !found {
		t.Errorf("unbreakable token was split: %q", lines)
	}
}

func TestTrimTrailingBlank(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  int
	}{
		{"already clean", []string{"a", "b"}, 2},
		{"trailing empty", []string{"a", ""}, 1},
		{"trailing whitespace", []string{"a", "   ", "\t"}, 1},
		{"colored blank", []string{"a", "\x1b[38;5;149m  \x1b[0m"}, 1},
		{"all blank", []string{"", "  ", ""}, 0},
		{"empty input", nil, 0},
		{"blank in the middle survives", []string{"a", "", "b"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimTrailingBlank(tt.input)
			if len(got) != tt.want {
				t.Errorf("trimTrailingBlank(%q) = %q, want %d lines", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimTrailingBlankIdempotent(t *testing.T) {
	input := []string{"a", "b", "", "  "}
	once := trimTrailingBlank(input)
	twice := trimTrailingBlank(once)
	if len(once) != len(twice) {
		t.Errorf("trim not idempotent: %d then %d lines", len(once), len(twice))
	}
}

func testProfile() *Profile {
	return &Profile{
		Login:       "octocat",
		Bio:         "Building things",
		Location:    "San Francisco",
		Blog:        "octocat.dev",
		PublicRepos: 8,
		Followers:   100,
		Following:   9,
	}
}

func TestFormatProfileFields(t *testing.T) {
	lines := plainLines(formatProfile(testProfile(), 42, nil, 60, DefaultPalette()))

	// Title, rule, and the seven fields.
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9: %q", len(lines), lines)
	}

	rule := strings.Repeat("-", len("octocat")+7)
	if lines[1] != rule {
		t.Errorf("rule = %q, want %q", lines[1], rule)
	}

	// Labels pad to the widest label ("Followers") plus two columns.
	wantFields := map[string]string{
		"Repos:":     "Repos:     8",
		"From:":      "From:      San Francisco",
		"Followers:": "Followers: 100",
		"Following:": "Following: 9",
		"Starred:":   "Starred:   42",
	}
	for label, want := range wantFields {
		found := false
		for _, line := range lines {
			if line == want {
				found = true
			}
		}
		if !found {
			t.Errorf("no line %q for label %q in %q", want, label, lines)
		}
	}
}

func TestFormatProfileTitleHyperlink(t *testing.T) {
	lines := formatProfile(testProfile(), 0, nil, 60, DefaultPalette())
	if !strings.Contains(lines[0], "https://github.com/octocat") {
		t.Errorf("title %q lacks profile URL", lines[0])
	}
	if !strings.Contains(lines[0], "octocat@") {
		t.Errorf("title %q lacks login", lines[0])
	}
}

func TestFormatProfileWebsiteScheme(t *testing.T) {
	lines := formatProfile(testProfile(), 0, nil, 60, DefaultPalette())
	found := false
	for _, line := range lines {
		if strings.Contains(line, "https://octocat.dev") && strings.Contains(line, "Website:") {
			found = true
		}
	}
	if !found {
		t.Errorf("website line missing schemed hyperlink: %q", lines)
	}
}

func TestFormatProfileMissingFields(t *testing.T) {
	p := &Profile{Login: "ghost"}
	lines := plainLines(formatProfile(p, 0, nil, 60, DefaultPalette()))

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Website:   N/A") {
		t.Errorf("missing website fallback in %q", joined)
	}
	if !strings.Contains(joined, "Bio:       N/A") {
		t.Errorf("missing bio fallback in %q", joined)
	}
	if !strings.Contains(joined, "From:      Not Provided") {
		t.Errorf("missing location fallback in %q", joined)
	}
}

func TestFormatProfileBioWrapIndent(t *testing.T) {
	p := testProfile()
	p.Bio = "a reasonably long biography that certainly needs wrapping somewhere"
	lines := formatProfile(p, 0, nil, 20, DefaultPalette())

	indent := strings.Repeat(" ", len("Followers")+2)
	continuations := 0
	for _, line := range lines {
		if strings.HasPrefix(line, indent) && strings.TrimSpace(line) != "" {
			continuations++
		}
	}
	if continuations == 0 {
		t.Errorf("expected indented bio continuation lines in %q", lines)
	}
}

func TestFormatProfilePinnedRepos(t *testing.T) {
	repos := []PinnedRepo{
		{Name: "hello-world", Owner: "octocat", Stars: 3, Forks: 1, HasLanguage: true,
			Description: "My first repository"},
		{Name: "spoon-knife", Owner: "octocat", Stars: 2, Forks: 9},
	}
	lines := formatProfile(testProfile(), 0, repos, 60, DefaultPalette())

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Pinned Repositories:") {
		t.Fatalf("missing section header in %q", joined)
	}
	if !strings.Contains(joined, "hello-world") || !strings.Contains(joined, "spoon-knife") {
		t.Errorf("missing repo names in %q", joined)
	}
	if !strings.Contains(joined, "★ 3") || !strings.Contains(joined, "⑂ 9") {
		t.Errorf("missing star/fork counts in %q", joined)
	}
	if !strings.Contains(joined, "   My first repository") {
		t.Errorf("description not indented by 3 in %q", joined)
	}
}

func TestProfileHeatmapSeam(t *testing.T) {
	profileLines := []string{"Followers: 10", ""}
	heatmapLines := []string{"Contributions: 5"}

	combined := append(trimTrailingBlank(profileLines), heatmapLines...)
	if len(combined) != 2 {
		t.Fatalf("combined = %q, want 2 lines", combined)
	}
	if combined[0] != "Followers: 10" || combined[1] != "Contributions: 5" {
		t.Errorf("blank line left at the seam: %q", combined)
	}
}
