package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/polyscan/polyscan/internal/domain"
)

// QuoteSource returns the current price snapshot for the asset catalog.
type QuoteSource interface {
	Quotes(ctx context.Context) (domain.QuoteBook, error)
}

// PricesHandler serves live price snapshots.
type PricesHandler struct {
	quotes QuoteSource
	logger *slog.Logger
}

// NewPricesHandler creates a PricesHandler backed by the given quote source.
func NewPricesHandler(quotes QuoteSource, logger *slog.Logger) *PricesHandler {
	return &PricesHandler{
		quotes: quotes,
		logger: logHandler(logger, "prices"),
	}
}

// GetPrices returns the cached quote book, refreshing it when stale.
// GET /api/prices
func (h *PricesHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	book, err := h.quotes.Quotes(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: price snapshot failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch prices")
		return
	}

	setEdgeCache(w, 30, 60)
	writeJSON(w, http.StatusOK, book)
}
