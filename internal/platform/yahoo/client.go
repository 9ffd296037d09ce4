// Package yahoo implements the Yahoo Finance chart client used for the
// S&P 500 reference quote.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/polyscan/polyscan/internal/domain"
)

// IndexQuote is the distilled chart response for one index symbol.
type IndexQuote struct {
	Price      float64
	PrevClose  float64
	MarketOpen bool
}

// Client fetches index quotes from the Yahoo Finance v8 chart endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new Yahoo Finance client.
//
// baseURL is the chart host root, e.g. "https://query1.finance.yahoo.com".
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// chartResponse mirrors the subset of the v8 chart payload the scanner reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				PreviousClose        float64 `json:"previousClose"`
				CurrentTradingPeriod struct {
					Regular struct {
						Start int64 `json:"start"`
						End   int64 `json:"end"`
					} `json:"regular"`
				} `json:"currentTradingPeriod"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// IndexQuote returns the current price, previous close, and whether the
// regular trading session is in progress for the given symbol (e.g. "^GSPC").
func (c *Client) IndexQuote(ctx context.Context, symbol string) (IndexQuote, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "1d")

	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return IndexQuote{}, fmt.Errorf("yahoo: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return IndexQuote{}, fmt.Errorf("yahoo: chart %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return IndexQuote{}, fmt.Errorf("yahoo: chart %s: %w: status %d", symbol, domain.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return IndexQuote{}, fmt.Errorf("yahoo: read response: %w", err)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return IndexQuote{}, fmt.Errorf("yahoo: decode chart: %w", err)
	}
	if len(chart.Chart.Result) == 0 {
		return IndexQuote{}, fmt.Errorf("yahoo: chart %s: %w: empty result", symbol, domain.ErrUpstream)
	}

	meta := chart.Chart.Result[0].Meta

	prevClose := meta.ChartPreviousClose
	if prevClose == 0 {
		prevClose = meta.PreviousClose
	}

	regular := meta.CurrentTradingPeriod.Regular
	now := time.Now().Unix()
	open := regular.Start > 0 && now >= regular.Start && now <= regular.End

	return IndexQuote{
		Price:      meta.RegularMarketPrice,
		PrevClose:  prevClose,
		MarketOpen: open,
	}, nil
}
