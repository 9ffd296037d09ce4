// Package coingecko implements the CoinGecko simple-price client used for
// crypto and gold reference quotes.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/polyscan/polyscan/internal/domain"
)

// AssetPrice is the per-asset payload of the simple/price endpoint.
type AssetPrice struct {
	USD          float64 `json:"usd"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// Client fetches spot prices from the CoinGecko API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new CoinGecko client.
//
// baseURL is the API root, e.g. "https://api.coingecko.com".
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SimplePrice returns the USD price and 24h change for each requested
// CoinGecko asset ID. IDs absent from the response are simply missing from
// the returned map.
func (c *Client) SimplePrice(ctx context.Context, ids []string) (map[string]AssetPrice, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")

	reqURL := c.baseURL + "/api/v3/simple/price?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("coingecko: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko: simple price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("coingecko: simple price: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coingecko: read response: %w", err)
	}

	var prices map[string]AssetPrice
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, fmt.Errorf("coingecko: decode prices: %w", err)
	}

	return prices, nil
}
