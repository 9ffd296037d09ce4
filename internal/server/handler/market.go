package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/polyscan/polyscan/internal/domain"
)

// MarketLister produces the enriched market listing.
type MarketLister interface {
	ListEnriched(ctx context.Context) ([]domain.Market, domain.QuoteBook, error)
}

// MarketGetter retrieves a single market by ID.
type MarketGetter interface {
	GetMarket(ctx context.Context, id string) (domain.Market, error)
}

// MarketHandler serves market-related HTTP endpoints.
type MarketHandler struct {
	lister MarketLister
	getter MarketGetter
	logger *slog.Logger
}

// NewMarketHandler creates a MarketHandler with the given services and logger.
func NewMarketHandler(lister MarketLister, getter MarketGetter, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		lister: lister,
		getter: getter,
		logger: logHandler(logger, "markets"),
	}
}

// listMarketsResponse wraps the enriched listing output.
type listMarketsResponse struct {
	Count      int              `json:"count"`
	Markets    []domain.Market  `json:"markets"`
	LivePrices domain.QuoteBook `json:"livePrices"`
}

// ListMarkets returns the deduplicated market listing with news and live
// price enrichment attached. Partial upstream failures are absorbed inside
// the enrichment layer and still produce a 200 with reduced enrichment; only
// a failure of the orchestration itself yields a 500.
// GET /api/markets
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, book, err := h.lister.ListEnriched(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list markets failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	setEdgeCache(w, 30, 60)
	writeJSON(w, http.StatusOK, listMarketsResponse{
		Count:      len(markets),
		Markets:    markets,
		LivePrices: book,
	})
}

// GetMarket returns a single market by its ID, without enrichment.
// GET /api/markets/{id}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	market, err := h.getter.GetMarket(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get market failed",
			slog.String("market_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get market")
		return
	}

	writeJSON(w, http.StatusOK, market)
}
