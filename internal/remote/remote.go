// Package remote fetches pull-request and issue metadata from the GitHub
// REST API. Failures are the caller's to degrade on; a summary proceeds
// without mentions.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.github.com"

// Item is one open issue or pull request mentioning an error type.
type Item struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url"`
	IsPR   bool   `json:"isPR"`
}

// Client is a minimal GitHub search client.
type Client struct {
	http  *http.Client
	base  string
	token string
	repo  string // owner/name slug
	log   *slog.Logger
}

// NewClient creates a client for the given repo slug. base overrides the API
// endpoint (useful for tests); empty means api.github.com. token may be
// empty for anonymous, rate-limited access.
func NewClient(repo, token, base string) *Client {
	if base == "" {
		base = defaultAPIBase
	}
	return &Client{
		http:  &http.Client{Timeout: 30 * time.Second},
		base:  strings.TrimRight(base, "/"),
		token: token,
		repo:  repo,
		log:   slog.Default().With("component", "remote"),
	}
}

type searchResponse struct {
	Items []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		State       string `json:"state"`
		HTMLURL     string `json:"html_url"`
		PullRequest *struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	} `json:"items"`
}

// SearchMentions returns open issues and PRs in the configured repo whose
// text mentions errorName.
func (c *Client) SearchMentions(ctx context.Context, errorName string) ([]Item, error) {
	if c.repo == "" {
		return nil, fmt.Errorf("no repository slug configured")
	}

	q := fmt.Sprintf("repo:%s %q state:open", c.repo, errorName)
	endpoint := fmt.Sprintf("%s/search/issues?q=%s&per_page=20", c.base, url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github search failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding github response: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, Item{
			Number: it.Number,
			Title:  it.Title,
			State:  it.State,
			URL:    it.HTMLURL,
			IsPR:   it.PullRequest != nil,
		})
	}
	c.log.Debug("search complete", "error", errorName, "items", len(items))
	return items, nil
}
