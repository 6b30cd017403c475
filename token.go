package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/auth"
	"golang.org/x/term"
)

// Token resolution order: GITHUB_TOKEN environment variable, then the saved
// token file, then whatever the gh CLI has stored for github.com.

type tokenFile struct {
	GitHubToken string `json:"github_token"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "ghfetch")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

func tokenPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token.json"), nil
}

func loadToken() string {
	path, err := tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return ""
	}
	return tf.GitHubToken
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(tokenFile{GitHubToken: token})
	if err != nil {
		return err
	}
	// Readable only by the owner.
	return os.WriteFile(path, data, 0o600)
}

func deleteToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolveToken finds a token without prompting.
func resolveToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	if token := loadToken(); token != "" {
		return token
	}
	token, _ := auth.TokenForHost("github.com")
	return token
}

// validateToken checks a token against the /user endpoint and returns the
// authenticated login and granted OAuth scopes.
func validateToken(token string) (login, scopes string, err error) {
	req, err := http.NewRequest("GET", githubAPIURL+"/user", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("validating token: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", "", fmt.Errorf("invalid token: authentication failed")
	default:
		return "", "", fmt.Errorf("validating token: %s", resp.Status)
	}

	var data struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", "", err
	}
	return data.Login, resp.Header.Get("X-OAuth-Scopes"), nil
}

// hasReadUserScope reports whether the scope list grants read:user, which
// the GraphQL queries behind pinned repositories and the heatmap need.
func hasReadUserScope(scopes string) bool {
	for _, s := range strings.Split(scopes, ",") {
		s = strings.TrimSpace(s)
		if s == "read:user" || s == "user" {
			return true
		}
	}
	return false
}

// setupToken walks the user through creating and saving a token. Input is
// hidden; the token is validated before it is persisted.
func setupToken(pal Palette) (string, error) {
	fmt.Println(pal.Accent.Render("GitHub Token Setup"))
	fmt.Println("ghfetch needs a personal access token to show pinned repositories")
	fmt.Println("and contribution heatmaps, and to avoid API rate limits.")
	fmt.Println()
	fmt.Printf("Create one at %s with the %s scope.\n",
		hyperlink("https://github.com/settings/tokens", pal.Link.Render("github.com/settings/tokens")),
		pal.Label.Render("read:user"))
	fmt.Println()
	fmt.Print(pal.Label.Render("Enter your GitHub token (input is hidden): "))

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("no token provided")
	}

	if !strings.HasPrefix(token, "ghp_") && !strings.HasPrefix(token, "github_pat_") {
		fmt.Println(pal.Warn.Render("Warning: token format looks unusual; tokens usually start with ghp_ or github_pat_."))
	}

	fmt.Println(pal.Warn.Render("Validating token..."))
	login, scopes, err := validateToken(token)
	if err != nil {
		return "", err
	}
	if !hasReadUserScope(scopes) {
		fmt.Println(pal.Warn.Render("Warning: token may lack the read:user scope; heatmaps and pinned repositories may not work."))
	}
	fmt.Printf("%s %s\n", pal.Accent.Render("Welcome,"), pal.Label.Render(login))

	if err := saveToken(token); err != nil {
		return "", fmt.Errorf("saving token: %w", err)
	}
	fmt.Println(pal.Accent.Render("Token saved."))
	return token, nil
}

// ensureToken resolves a token, offering interactive setup when none is
// found and stdin is a terminal. Running without a token is allowed; the
// GraphQL-backed features just come back absent.
func ensureToken(pal Palette) string {
	if token := resolveToken(); token != "" {
		return token
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}

	fmt.Println(pal.Warn.Render("No GitHub token found."))
	fmt.Print(pal.Accent.Render("Set up a GitHub token now? [Y/n]: "))
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" || strings.HasPrefix(answer, "y") {
		token, err := setupToken(pal)
		if err != nil {
			fmt.Fprintln(os.Stderr, pal.Error.Render(fmt.Sprintf("Token setup failed: %v", err)))
			return ""
		}
		return token
	}

	fmt.Println(pal.Warn.Render("Running with limited functionality (no pinned repos or heatmap)."))
	return ""
}
