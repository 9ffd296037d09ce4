package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/polyscan/polyscan/internal/domain"
	"github.com/polyscan/polyscan/internal/news"
)

// FeedSource fetches a raw news feed document for a search query.
type FeedSource interface {
	Search(ctx context.Context, query string) ([]byte, error)
}

// NewsHandler serves ad-hoc news lookups.
type NewsHandler struct {
	feed     FeedSource
	maxItems int
	logger   *slog.Logger
}

// NewNewsHandler creates a NewsHandler backed by the given feed source.
func NewNewsHandler(feed FeedSource, maxItems int, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		feed:     feed,
		maxItems: maxItems,
		logger:   logHandler(logger, "news"),
	}
}

// newsResponse carries the normalized query and its matching items.
type newsResponse struct {
	Query string            `json:"query"`
	Items []domain.NewsItem `json:"items"`
}

// Search looks up news for the q parameter. The raw query goes through the
// same normalization as market questions, so passing a full market question
// here produces the same results as the listing enrichment.
// GET /api/news?q=
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if raw == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingParam.Error()+": q")
		return
	}

	query := news.SearchTerms(raw)
	body, err := h.feed.Search(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: news lookup failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrUpstream) {
			writeError(w, http.StatusBadGateway, "news feed unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}

	items := news.ParseItems(string(body), h.maxItems)
	if items == nil {
		items = []domain.NewsItem{}
	}

	setEdgeCache(w, 300, 600)
	writeJSON(w, http.StatusOK, newsResponse{Query: query, Items: items})
}
