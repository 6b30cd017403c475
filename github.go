package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

const (
	githubAPIURL     = "https://api.github.com"
	githubGraphQLURL = "https://api.github.com/graphql"
)

// GitHubClient handles all GitHub API interactions. Without a token it still
// serves the public REST endpoints; the GraphQL queries (pinned repositories,
// contribution calendar) need authentication and report absent data instead.
type GitHubClient struct {
	httpClient *http.Client
	authed     bool
}

// NewGitHubClient builds a client around go-gh's authenticated HTTP client
// when a token is available, or a plain unauthenticated one otherwise.
func NewGitHubClient(token string) (*GitHubClient, error) {
	if token == "" {
		return &GitHubClient{httpClient: &http.Client{Timeout: 10 * time.Second}}, nil
	}

	opts := ghAPI.ClientOptions{
		Host:      "github.com",
		AuthToken: token,
		Timeout:   10 * time.Second,
	}
	httpClient, err := ghAPI.NewHTTPClient(opts)
	if err != nil {
		return nil, fmt.Errorf("creating authenticated client: %w", err)
	}
	return &GitHubClient{httpClient: httpClient, authed: true}, nil
}

// Authenticated reports whether the client carries a token.
func (c *GitHubClient) Authenticated() bool {
	return c.authed
}

// Profile contains the user fields the formatter displays.
type Profile struct {
	Login       string
	Bio         string
	Location    string
	Blog        string
	AvatarURL   string
	PublicRepos int
	Followers   int
	Following   int
}

// PinnedRepo is one entry of a user's pinned-repositories list, in the order
// GitHub returns them.
type PinnedRepo struct {
	Name        string
	Owner       string
	Description string
	Stars       int
	Forks       int
	HasLanguage bool
}

// FetchProfile fetches a user's public profile.
func (c *GitHubClient) FetchProfile(username string) (*Profile, error) {
	url := fmt.Sprintf("%s/users/%s", githubAPIURL, username)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user %q not found", username)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API error: %s", resp.Status)
	}

	var data struct {
		Login       string `json:"login"`
		Bio         string `json:"bio"`
		Location    string `json:"location"`
		Blog        string `json:"blog"`
		AvatarURL   string `json:"avatar_url"`
		PublicRepos int    `json:"public_repos"`
		Followers   int    `json:"followers"`
		Following   int    `json:"following"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	return &Profile{
		Login:       data.Login,
		Bio:         data.Bio,
		Location:    data.Location,
		Blog:        data.Blog,
		AvatarURL:   data.AvatarURL,
		PublicRepos: data.PublicRepos,
		Followers:   data.Followers,
		Following:   data.Following,
	}, nil
}

// FetchStarredCount counts the user's starred repositories. Any failure
// counts as zero; the display treats this as informational only.
func (c *GitHubClient) FetchStarredCount(username string) int {
	url := fmt.Sprintf("%s/users/%s/starred", githubAPIURL, username)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0
	}

	var starred []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&starred); err != nil {
		return 0
	}
	return len(starred)
}

// FetchPinnedRepos fetches up to six pinned repositories via GraphQL.
// Without a token the list is absent, not an error.
func (c *GitHubClient) FetchPinnedRepos(username string) ([]PinnedRepo, error) {
	if !c.authed {
		return nil, nil
	}

	query := `
	query($login: String!) {
		user(login: $login) {
			pinnedItems(first: 6, types: [REPOSITORY]) {
				nodes {
					... on Repository {
						name
						description
						owner { login }
						stargazerCount
						forkCount
						primaryLanguage { name }
					}
				}
			}
		}
	}`

	var result struct {
		Data struct {
			User struct {
				PinnedItems struct {
					Nodes []struct {
						Name        string `json:"name"`
						Description string `json:"description"`
						Owner       struct {
							Login string `json:"login"`
						} `json:"owner"`
						StargazerCount  int `json:"stargazerCount"`
						ForkCount       int `json:"forkCount"`
						PrimaryLanguage *struct {
							Name string `json:"name"`
						} `json:"primaryLanguage"`
					} `json:"nodes"`
				} `json:"pinnedItems"`
			} `json:"user"`
		} `json:"data"`
	}

	if err := c.graphql(query, map[string]interface{}{"login": username}, &result); err != nil {
		return nil, err
	}

	var repos []PinnedRepo
	for _, node := range result.Data.User.PinnedItems.Nodes {
		repos = append(repos, PinnedRepo{
			Name:        node.Name,
			Owner:       node.Owner.Login,
			Description: node.Description,
			Stars:       node.StargazerCount,
			Forks:       node.ForkCount,
			HasLanguage: node.PrimaryLanguage != nil,
		})
	}
	return repos, nil
}

// FetchContributions fetches the contribution calendar for the trailing
// 365-day window ending now (UTC) via GraphQL. Without a token the calendar
// is absent, which the renderer distinguishes from an empty one.
func (c *GitHubClient) FetchContributions(username string) (*ContributionCalendar, error) {
	if !c.authed {
		return nil, nil
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -365)

	query := `
	query($login: String!, $from: DateTime!, $to: DateTime!) {
		user(login: $login) {
			contributionsCollection(from: $from, to: $to) {
				contributionCalendar {
					totalContributions
					weeks {
						firstDay
						contributionDays {
							date
							contributionCount
						}
					}
				}
			}
		}
	}`

	variables := map[string]interface{}{
		"login": username,
		"from":  from.Format("2006-01-02T15:04:05Z"),
		"to":    to.Format("2006-01-02T15:04:05Z"),
	}

	var result struct {
		Data struct {
			User struct {
				ContributionsCollection struct {
					ContributionCalendar struct {
						TotalContributions int `json:"totalContributions"`
						Weeks              []struct {
							FirstDay         string `json:"firstDay"`
							ContributionDays []struct {
								Date              string `json:"date"`
								ContributionCount int    `json:"contributionCount"`
							} `json:"contributionDays"`
						} `json:"weeks"`
					} `json:"contributionCalendar"`
				} `json:"contributionsCollection"`
			} `json:"user"`
		} `json:"data"`
	}

	if err := c.graphql(query, variables, &result); err != nil {
		return nil, err
	}

	calendar := &ContributionCalendar{
		Total: result.Data.User.ContributionsCollection.ContributionCalendar.TotalContributions,
	}
	for _, week := range result.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		firstDay, err := time.Parse("2006-01-02", week.FirstDay)
		if err != nil {
			continue
		}
		w := ContributionWeek{FirstDay: firstDay}
		for _, day := range week.ContributionDays {
			date, err := time.Parse("2006-01-02", day.Date)
			if err != nil {
				continue
			}
			w.Days = append(w.Days, ContributionDay{Date: date, Count: day.ContributionCount})
		}
		calendar.Weeks = append(calendar.Weeks, w)
	}
	return calendar, nil
}

// graphql posts a query to the GraphQL endpoint and decodes the response
// into out, surfacing GraphQL-level errors as Go errors.
func (c *GitHubClient) graphql(query string, variables map[string]interface{}, out interface{}) error {
	reqBody := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", githubGraphQLURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub GraphQL error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var gqlErrs struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &gqlErrs); err == nil && len(gqlErrs.Errors) > 0 {
		return fmt.Errorf("GitHub GraphQL error: %s", gqlErrs.Errors[0].Message)
	}

	return json.Unmarshal(body, out)
}
