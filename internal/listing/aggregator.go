// Package listing builds the deduplicated market listing from the paginated
// upstream API.
package listing

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/polyscan/polyscan/internal/domain"
)

// PageFetcher retrieves one page of markets from an external API.
type PageFetcher interface {
	GetMarkets(ctx context.Context, limit, offset int) ([]domain.Market, error)
}

// Aggregator fetches a fixed page plan concurrently and merges the results
// into one deduplicated listing.
type Aggregator struct {
	fetcher  PageFetcher
	pages    int
	pageSize int
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator that fetches `pages` pages of
// `pageSize` markets each.
func NewAggregator(fetcher PageFetcher, pages, pageSize int, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		fetcher:  fetcher,
		pages:    pages,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Fetch issues all page fetches concurrently and returns the pages
// concatenated in page order, deduplicated by market ID with the first
// occurrence winning. A failed page degrades to zero markets from that page;
// Fetch itself never fails, so a total upstream outage yields an empty
// listing rather than an error.
func (a *Aggregator) Fetch(ctx context.Context) []domain.Market {
	pages := make([][]domain.Market, a.pages)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < a.pages; i++ {
		offset := i * a.pageSize
		g.Go(func() error {
			markets, err := a.fetcher.GetMarkets(gctx, a.pageSize, offset)
			if err != nil {
				a.logger.WarnContext(gctx, "listing: page fetch failed",
					slog.Int("offset", offset),
					slog.String("error", err.Error()),
				)
				return nil
			}
			pages[i] = markets
			return nil
		})
	}
	// Page errors are swallowed above, so Wait only reflects ctx state.
	_ = g.Wait()

	seen := make(map[string]struct{})
	var merged []domain.Market
	for _, page := range pages {
		for _, m := range page {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			merged = append(merged, m)
		}
	}

	return merged
}
