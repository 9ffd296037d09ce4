// Package googlenews implements the Google News RSS search client. Responses
// are returned as raw feed text; parsing is the news package's job.
package googlenews

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/polyscan/polyscan/internal/domain"
)

// Client fetches RSS search results from the Google News feed.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new feed client.
//
// baseURL is the feed root, e.g. "https://news.google.com". The User-Agent is
// sent on every request; Google News rejects empty agents.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search fetches the RSS results for a query and returns the raw feed body.
// Per-lookup deadlines are the caller's responsibility via ctx.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	reqURL := c.baseURL + "/rss/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("googlenews: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googlenews: search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("googlenews: search %q: %w: status %d", query, domain.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("googlenews: read response: %w", err)
	}

	return body, nil
}
