package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polyscan/polyscan/internal/cache/memory"
	"github.com/polyscan/polyscan/internal/cache/redis"
	"github.com/polyscan/polyscan/internal/config"
	"github.com/polyscan/polyscan/internal/domain"
	"github.com/polyscan/polyscan/internal/enrich"
	"github.com/polyscan/polyscan/internal/listing"
	"github.com/polyscan/polyscan/internal/platform/coingecko"
	"github.com/polyscan/polyscan/internal/platform/googlenews"
	"github.com/polyscan/polyscan/internal/platform/polymarket"
	"github.com/polyscan/polyscan/internal/platform/yahoo"
	"github.com/polyscan/polyscan/internal/prices"
	"github.com/polyscan/polyscan/internal/server/ws"
)

// Dependencies bundles everything the HTTP layer needs to serve requests. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Gamma    *polymarket.GammaClient
	Feed     *googlenews.Client
	Quotes   *prices.Service
	Enricher *enrich.Orchestrator
	Hub      *ws.Hub
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Upstream clients ---
	deps.Gamma = polymarket.NewGammaClient(cfg.Polymarket.GammaHost)
	deps.Feed = googlenews.NewClient(cfg.News.FeedHost, cfg.News.UserAgent)
	gecko := coingecko.NewClient(cfg.Prices.CoinGeckoHost, cfg.Prices.UserAgent)
	index := yahoo.NewClient(cfg.Prices.YahooHost, cfg.Prices.UserAgent)
	var indexFallback *yahoo.Client
	if cfg.Prices.YahooFallbackHost != "" {
		indexFallback = yahoo.NewClient(cfg.Prices.YahooFallbackHost, cfg.Prices.UserAgent)
	}

	// --- Quote cache: in-process by default, Redis when enabled ---
	var quoteCache domain.QuoteCache = memory.NewQuoteCache(cfg.Prices.CacheTTL.Duration)
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		quoteCache = redis.NewQuoteCache(redisClient, cfg.Prices.CacheTTL.Duration)
	}

	// --- WebSocket hub ---
	deps.Hub = ws.NewHub(logger)

	// --- Services ---
	var fallback prices.IndexSource
	if indexFallback != nil {
		fallback = indexFallback
	}
	deps.Quotes = prices.NewService(gecko, index, fallback, quoteCache, deps.Hub, logger)

	lister := listing.NewAggregator(deps.Gamma, cfg.Polymarket.Pages, cfg.Polymarket.PageSize, logger)
	deps.Enricher = enrich.NewOrchestrator(lister, deps.Quotes, deps.Feed, enrich.Config{
		TopMarkets:    cfg.News.TopMarkets,
		MaxQueries:    cfg.News.MaxQueries,
		BatchSize:     cfg.News.BatchSize,
		MaxItems:      cfg.News.MaxItems,
		LookupTimeout: cfg.News.LookupTimeout.Duration,
	}, logger)

	return deps, cleanup, nil
}
