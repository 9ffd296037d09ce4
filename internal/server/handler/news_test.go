package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyscan/polyscan/internal/domain"
)

type stubFeed struct {
	body []byte
	err  error
	got  string
}

func (s *stubFeed) Search(ctx context.Context, query string) ([]byte, error) {
	s.got = query
	return s.body, s.err
}

func TestNewsSearch(t *testing.T) {
	feed := &stubFeed{body: []byte(
		"<item><title>Bitcoin rallies</title><link>https://example.com/a</link></item>" +
			"<item><title>Markets shrug</title><link>https://example.com/b</link></item>",
	)}
	h := NewNewsHandler(feed, 5, discard())

	req := httptest.NewRequest(http.MethodGet, "/api/news?q=Will+BTC+reach+%24100%2C000%3F", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-maxage=300, stale-while-revalidate=600", rec.Header().Get("Cache-Control"))

	var resp struct {
		Query string            `json:"query"`
		Items []domain.NewsItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// The raw question is normalized before the lookup and echoed back.
	assert.Equal(t, "Bitcoin  $100,000", resp.Query)
	assert.Equal(t, resp.Query, feed.got)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Bitcoin rallies", resp.Items[0].Title)
}

func TestNewsSearchMissingQuery(t *testing.T) {
	h := NewNewsHandler(&stubFeed{}, 5, discard())

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "q")
}

func TestNewsSearchUpstreamFailure(t *testing.T) {
	h := NewNewsHandler(&stubFeed{err: fmt.Errorf("search: %w", domain.ErrUpstream)}, 5, discard())

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/news?q=bitcoin", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNewsSearchTransportFailure(t *testing.T) {
	h := NewNewsHandler(&stubFeed{err: errors.New("dial tcp: timeout")}, 5, discard())

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/news?q=bitcoin", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewsSearchEmptyFeedYieldsEmptyList(t *testing.T) {
	h := NewNewsHandler(&stubFeed{body: []byte("<rss></rss>")}, 5, discard())

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/news?q=bitcoin", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestNewsSearchCapsItems(t *testing.T) {
	var body string
	for i := 0; i < 10; i++ {
		body += fmt.Sprintf("<item><title>headline %d</title></item>", i)
	}
	h := NewNewsHandler(&stubFeed{body: []byte(body)}, 5, discard())

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/news?q=bitcoin", nil))

	var resp struct {
		Items []domain.NewsItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 5)
}
