package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyscan/polyscan/internal/domain"
)

type stubLister struct {
	markets []domain.Market
	book    domain.QuoteBook
	err     error
}

func (s *stubLister) ListEnriched(ctx context.Context) ([]domain.Market, domain.QuoteBook, error) {
	return s.markets, s.book, s.err
}

type stubGetter struct {
	market domain.Market
	err    error
}

func (s *stubGetter) GetMarket(ctx context.Context, id string) (domain.Market, error) {
	return s.market, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestListMarkets(t *testing.T) {
	book := domain.NewQuoteBook(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	book.Quotes["btc"] = domain.PriceQuote{Price: 100000}

	h := NewMarketHandler(&stubLister{
		markets: []domain.Market{
			{ID: "1", Question: "Will Bitcoin reach $150,000?", Active: true},
			{ID: "2", Question: "Who wins?", Active: true},
		},
		book: book,
	}, &stubGetter{}, discard())

	req := httptest.NewRequest(http.MethodGet, "/api/markets", nil)
	rec := httptest.NewRecorder()
	h.ListMarkets(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-maxage=30, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))

	var resp struct {
		Count      int             `json:"count"`
		Markets    []domain.Market `json:"markets"`
		LivePrices json.RawMessage `json:"livePrices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Markets, 2)
	assert.Equal(t, "1", resp.Markets[0].ID)

	var prices map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.LivePrices, &prices))
	assert.Contains(t, prices, "btc")
	assert.Contains(t, prices, "fetchedAt")
}

func TestListMarketsEmptyListing(t *testing.T) {
	// A total upstream outage degrades to an empty listing, not an error.
	h := NewMarketHandler(&stubLister{
		book: domain.NewQuoteBook(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)),
	}, &stubGetter{}, discard())

	rec := httptest.NewRecorder()
	h.ListMarkets(rec, httptest.NewRequest(http.MethodGet, "/api/markets", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count   int             `json:"count"`
		Markets []domain.Market `json:"markets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Markets)
}

func TestListMarketsFailure(t *testing.T) {
	h := NewMarketHandler(&stubLister{err: errors.New("listing blew up")}, &stubGetter{}, discard())

	rec := httptest.NewRecorder()
	h.ListMarkets(rec, httptest.NewRequest(http.MethodGet, "/api/markets", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "listing blew up")
}

func TestGetMarket(t *testing.T) {
	mux := http.NewServeMux()
	h := NewMarketHandler(&stubLister{}, &stubGetter{
		market: domain.Market{ID: "77", Question: "Will it rain?", Active: true},
	}, discard())
	mux.HandleFunc("GET /api/markets/{id}", h.GetMarket)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/markets/77", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Market
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "77", got.ID)
}

func TestGetMarketNotFound(t *testing.T) {
	mux := http.NewServeMux()
	h := NewMarketHandler(&stubLister{}, &stubGetter{err: domain.ErrNotFound}, discard())
	mux.HandleFunc("GET /api/markets/{id}", h.GetMarket)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/markets/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMarketUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	h := NewMarketHandler(&stubLister{}, &stubGetter{err: errors.New("gamma 500")}, discard())
	mux.HandleFunc("GET /api/markets/{id}", h.GetMarket)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/markets/77", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
