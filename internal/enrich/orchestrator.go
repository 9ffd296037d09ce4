// Package enrich coordinates the market listing enrichment: price
// correlation for every market, then batched, rate-capped news lookups for
// the most active ones.
package enrich

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/polyscan/polyscan/internal/domain"
	"github.com/polyscan/polyscan/internal/news"
	"github.com/polyscan/polyscan/internal/prices"
)

// FeedSource fetches raw feed text for a search query.
type FeedSource interface {
	Search(ctx context.Context, query string) ([]byte, error)
}

// Lister produces the deduplicated market listing.
type Lister interface {
	Fetch(ctx context.Context) []domain.Market
}

// QuoteSource returns the current reference quote book.
type QuoteSource interface {
	Quotes(ctx context.Context) (domain.QuoteBook, error)
}

// Config bounds the news-lookup fan-out.
type Config struct {
	// TopMarkets is the size of the enrichment candidate set.
	TopMarkets int
	// MaxQueries caps the number of distinct feed lookups per listing,
	// independent of how many candidates there are.
	MaxQueries int
	// BatchSize bounds concurrent outbound feed lookups.
	BatchSize int
	// MaxItems caps news items kept per query.
	MaxItems int
	// LookupTimeout is the per-lookup deadline.
	LookupTimeout time.Duration
}

// Orchestrator assembles the enriched listing.
type Orchestrator struct {
	lister Lister
	quotes QuoteSource
	feed   FeedSource
	cfg    Config
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(lister Lister, quotes QuoteSource, feed FeedSource, cfg Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		lister: lister,
		quotes: quotes,
		feed:   feed,
		cfg:    cfg,
		logger: logger,
	}
}

// ListEnriched fetches the deduplicated listing, attaches a correlated live
// price to every market, and attaches fresh news to the top candidates.
// Upstream failures only reduce enrichment; ListEnriched always returns a
// listing.
func (o *Orchestrator) ListEnriched(ctx context.Context) ([]domain.Market, domain.QuoteBook, error) {
	markets := o.lister.Fetch(ctx)

	book, err := o.quotes.Quotes(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "enrich: quote fetch failed",
			slog.String("error", err.Error()),
		)
		book = domain.QuoteBook{}
	}

	o.Enrich(ctx, markets, book)

	return markets, book, nil
}

// Enrich populates News and RelevantLivePrice in place. Price correlation
// runs for every market regardless of rank; news lookups are bounded by the
// candidate set, query cap, and batch size.
func (o *Orchestrator) Enrich(ctx context.Context, markets []domain.Market, book domain.QuoteBook) {
	for i := range markets {
		if q := prices.Correlate(markets[i].Question, book); q != nil {
			markets[i].RelevantLivePrice = q
		}
	}

	queryOrder, queryMarkets := o.groupQueries(o.selectCandidates(markets))
	if len(queryOrder) == 0 {
		return
	}

	results := o.lookupAll(ctx, queryOrder)

	index := make(map[string]int, len(markets))
	for i, m := range markets {
		index[m.ID] = i
	}
	for query, items := range results {
		for _, id := range queryMarkets[query] {
			if i, ok := index[id]; ok {
				markets[i].News = items
			}
		}
	}
}

// selectCandidates picks the markets worth a news lookup: a non-empty
// question, active, not closed, ranked by 24h volume descending. The sort is
// stable so equal-volume markets keep their listing order.
func (o *Orchestrator) selectCandidates(markets []domain.Market) []domain.Market {
	candidates := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		if m.Question == "" || !m.Active || m.Closed {
			continue
		}
		candidates = append(candidates, m)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Volume24h > candidates[j].Volume24h
	})

	if len(candidates) > o.cfg.TopMarkets {
		candidates = candidates[:o.cfg.TopMarkets]
	}
	return candidates
}

// groupQueries derives each candidate's search query and groups candidate
// IDs by query value, preserving first-seen query order. Queries past the
// MaxQueries ceiling are never looked up; that is a cost ceiling, not a
// failure.
func (o *Orchestrator) groupQueries(candidates []domain.Market) ([]string, map[string][]string) {
	var order []string
	groups := make(map[string][]string)

	for _, m := range candidates {
		query := news.SearchTerms(m.Question)
		if _, ok := groups[query]; !ok {
			order = append(order, query)
		}
		groups[query] = append(groups[query], m.ID)
	}

	if len(order) > o.cfg.MaxQueries {
		order = order[:o.cfg.MaxQueries]
	}
	return order, groups
}

// lookupAll processes the selected queries in fixed-size batches. Batches run
// sequentially; lookups within a batch run concurrently and the batch
// boundary waits for every lookup to settle, bounding peak outbound
// concurrency to BatchSize. Only queries that yielded at least one item
// appear in the result map.
func (o *Orchestrator) lookupAll(ctx context.Context, queries []string) map[string][]domain.NewsItem {
	results := make(map[string][]domain.NewsItem)

	for start := 0; start < len(queries); start += o.cfg.BatchSize {
		end := min(start+o.cfg.BatchSize, len(queries))
		batch := queries[start:end]

		found := make([][]domain.NewsItem, len(batch))
		var wg sync.WaitGroup
		for i, query := range batch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				found[i] = o.lookup(ctx, query)
			}()
		}
		wg.Wait()

		for i, query := range batch {
			if len(found[i]) > 0 {
				results[query] = found[i]
			}
		}
	}

	return results
}

// lookup fetches and parses one query's feed. Timeout, non-success, and
// transport errors all collapse to zero items; a slow or failing query never
// affects its batch siblings.
func (o *Orchestrator) lookup(ctx context.Context, query string) []domain.NewsItem {
	lctx, cancel := context.WithTimeout(ctx, o.cfg.LookupTimeout)
	defer cancel()

	body, err := o.feed.Search(lctx, query)
	if err != nil {
		o.logger.DebugContext(ctx, "enrich: news lookup failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return news.ParseItems(string(body), o.cfg.MaxItems)
}
