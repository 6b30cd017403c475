package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	showHeatmap bool
	noAvatar    bool
	themePath   string
)

var rootCmd = &cobra.Command{
	Use:   "ghfetch <username>",
	Short: "Display GitHub profiles in the terminal",
	Long: `ghfetch renders a GitHub user's profile next to their avatar, with
pinned repositories or a year of contribution activity.

Examples:
  ghfetch shubhpsd            view a GitHub profile
  ghfetch shubhpsd --heatmap  view the contribution heatmap
  ghfetch configure           set up a GitHub token`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set up or update the GitHub token",
	RunE: func(cmd *cobra.Command, args []string) error {
		pal, err := loadPalette()
		if err != nil {
			return err
		}
		_, err = setupToken(pal)
		return err
	},
}

var resetTokenCmd = &cobra.Command{
	Use:   "reset-token",
	Short: "Delete the saved token and configure a new one",
	RunE: func(cmd *cobra.Command, args []string) error {
		pal, err := loadPalette()
		if err != nil {
			return err
		}
		if err := deleteToken(); err != nil {
			return fmt.Errorf("deleting token: %w", err)
		}
		os.Unsetenv("GITHUB_TOKEN")
		_, err = setupToken(pal)
		return err
	},
}

func init() {
	rootCmd.Flags().BoolVar(&showHeatmap, "heatmap", false, "show the contribution heatmap instead of pinned repositories")
	rootCmd.Flags().BoolVar(&noAvatar, "no-avatar", false, "skip avatar rendering")
	rootCmd.PersistentFlags().StringVar(&themePath, "theme", "", "path to a YAML palette theme")
	rootCmd.AddCommand(configureCmd, resetTokenCmd)
}

// loadPalette builds the palette from the --theme flag, the default theme
// file if one exists, or the built-in defaults.
func loadPalette() (Palette, error) {
	if themePath != "" {
		return LoadTheme(themePath)
	}
	if path := defaultThemePath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadTheme(path)
		}
	}
	return DefaultPalette(), nil
}

func run(username string) error {
	pal, err := loadPalette()
	if err != nil {
		return err
	}

	token := ensureToken(pal)
	client, err := NewGitHubClient(token)
	if err != nil {
		return err
	}

	profile, err := client.FetchProfile(username)
	if err != nil {
		return err
	}
	starred := client.FetchStarredCount(username)

	var repos []PinnedRepo
	var calendar *ContributionCalendar
	if showHeatmap {
		if !client.Authenticated() {
			fmt.Fprintln(os.Stderr, pal.Warn.Render("Warning: GitHub token not set. Cannot fetch contribution data."))
		} else if calendar, err = client.FetchContributions(username); err != nil {
			fmt.Fprintln(os.Stderr, pal.Error.Render(fmt.Sprintf("Error fetching contribution data: %v", err)))
			calendar = nil
		}
	} else {
		if !client.Authenticated() {
			fmt.Fprintln(os.Stderr, pal.Warn.Render("Warning: GitHub token not set. Cannot fetch pinned repos."))
		} else if repos, err = client.FetchPinnedRepos(username); err != nil {
			fmt.Fprintln(os.Stderr, pal.Error.Render(fmt.Sprintf("Error fetching pinned repos: %v", err)))
			repos = nil
		}
	}

	painter := selectPainter()
	var avatar []byte
	if painter != nil && profile.AvatarURL != "" {
		if avatar, err = FetchAvatar(profile.AvatarURL); err != nil {
			fmt.Fprintln(os.Stderr, pal.Error.Render(fmt.Sprintf("Error fetching avatar: %v", err)))
			avatar = nil
		}
	}

	comp := NewCompositor(os.Stdout, os.Stderr, terminalWidth(), painter, pal)
	comp.Render(avatar, func(width int) []string {
		if showHeatmap {
			// Compact layout: trimmed profile block, heatmap appended with
			// no blank line at the seam.
			lines := trimTrailingBlank(formatProfile(profile, starred, nil, width, pal))
			return append(lines, renderHeatmap(username, calendar, width, pal)...)
		}
		return formatProfile(profile, starred, repos, width, pal)
	})
	return nil
}

// selectPainter picks the paint capability: imgcat when installed, the
// built-in braille renderer when stdout is a terminal, nothing otherwise.
func selectPainter() Painter {
	if noAvatar {
		return nil
	}
	if p, ok := findImgcat(os.Stdout); ok {
		return p
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return &braillePainter{out: os.Stdout}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
