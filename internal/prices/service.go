package prices

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/polyscan/polyscan/internal/domain"
	"github.com/polyscan/polyscan/internal/platform/coingecko"
	"github.com/polyscan/polyscan/internal/platform/yahoo"
)

// Per-upstream deadlines for one refresh pass. Gold rides a separate, shorter
// call because CoinGecko tracks it as a commodity on its own ID.
const (
	cryptoTimeout        = 8 * time.Second
	goldTimeout          = 5 * time.Second
	indexTimeout         = 8 * time.Second
	indexFallbackTimeout = 5 * time.Second
)

const sp500Symbol = "^GSPC"

// coinCodes maps CoinGecko asset IDs to the QuoteBook codes the correlator
// keys on.
var coinCodes = map[string]string{
	"bitcoin":  "btc",
	"ethereum": "eth",
	"solana":   "sol",
	"ripple":   "xrp",
}

// CryptoSource retrieves spot prices for a set of CoinGecko asset IDs.
type CryptoSource interface {
	SimplePrice(ctx context.Context, ids []string) (map[string]coingecko.AssetPrice, error)
}

// IndexSource retrieves a traditional-market index quote.
type IndexSource interface {
	IndexQuote(ctx context.Context, symbol string) (yahoo.IndexQuote, error)
}

// Publisher receives a payload for fan-out after each successful refresh.
type Publisher interface {
	Publish(channel string, data []byte)
}

// Service owns the reference quote lifecycle: refreshing all upstream price
// sources, caching the result for a freshness window, and collapsing
// concurrent refreshes into one upstream round-trip.
type Service struct {
	crypto        CryptoSource
	index         IndexSource
	indexFallback IndexSource
	cache         domain.QuoteCache
	publisher     Publisher
	group         singleflight.Group
	logger        *slog.Logger
}

// NewService creates a price Service. indexFallback and publisher may be nil.
func NewService(
	crypto CryptoSource,
	index IndexSource,
	indexFallback IndexSource,
	cache domain.QuoteCache,
	publisher Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		crypto:        crypto,
		index:         index,
		indexFallback: indexFallback,
		cache:         cache,
		publisher:     publisher,
		logger:        logger,
	}
}

// Quotes returns the current QuoteBook, serving from the cache when fresh and
// refreshing otherwise. Individual upstream failures degrade to missing
// entries; Quotes itself never fails on account of an upstream.
func (s *Service) Quotes(ctx context.Context) (domain.QuoteBook, error) {
	book, err := s.cache.Get(ctx)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "prices: quote cache read failed",
			slog.String("error", err.Error()),
		)
	}

	v, _, _ := s.group.Do("refresh", func() (any, error) {
		fresh := s.refresh(ctx)
		if setErr := s.cache.Set(ctx, fresh); setErr != nil {
			s.logger.WarnContext(ctx, "prices: quote cache write failed",
				slog.String("error", setErr.Error()),
			)
		}
		s.publish(fresh)
		return fresh, nil
	})

	return v.(domain.QuoteBook), nil
}

// refresh queries every upstream price source once. Each source failure is
// absorbed independently so the book holds whatever succeeded.
func (s *Service) refresh(ctx context.Context) domain.QuoteBook {
	book := domain.NewQuoteBook(time.Now().UTC())

	s.fetchCrypto(ctx, book)
	s.fetchGold(ctx, book)
	s.fetchIndex(ctx, book)

	return book
}

func (s *Service) fetchCrypto(ctx context.Context, book domain.QuoteBook) {
	cctx, cancel := context.WithTimeout(ctx, cryptoTimeout)
	defer cancel()

	ids := make([]string, 0, len(coinCodes))
	for id := range coinCodes {
		ids = append(ids, id)
	}

	quotes, err := s.crypto.SimplePrice(cctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "prices: crypto fetch failed",
			slog.String("error", err.Error()),
		)
		return
	}

	for id, code := range coinCodes {
		if p, ok := quotes[id]; ok {
			book.Quotes[code] = domain.PriceQuote{
				Price:     p.USD,
				Change24h: p.USD24hChange,
			}
		}
	}
}

func (s *Service) fetchGold(ctx context.Context, book domain.QuoteBook) {
	gctx, cancel := context.WithTimeout(ctx, goldTimeout)
	defer cancel()

	quotes, err := s.crypto.SimplePrice(gctx, []string{"tether-gold"})
	if err != nil {
		s.logger.WarnContext(ctx, "prices: gold fetch failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if p, ok := quotes["tether-gold"]; ok {
		book.Quotes["gold"] = domain.PriceQuote{
			Price:     p.USD,
			Change24h: p.USD24hChange,
		}
	}
}

func (s *Service) fetchIndex(ctx context.Context, book domain.QuoteBook) {
	ictx, cancel := context.WithTimeout(ctx, indexTimeout)
	quote, err := s.index.IndexQuote(ictx, sp500Symbol)
	cancel()

	marketOpen := quote.MarketOpen

	if err != nil && s.indexFallback != nil {
		fctx, fcancel := context.WithTimeout(ctx, indexFallbackTimeout)
		quote, err = s.indexFallback.IndexQuote(fctx, sp500Symbol)
		fcancel()
		// The fallback host omits trading-period data; report the session
		// closed rather than guessing.
		marketOpen = false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "prices: index fetch failed",
			slog.String("symbol", sp500Symbol),
			slog.String("error", err.Error()),
		)
		return
	}

	var change float64
	if quote.PrevClose > 0 {
		change = (quote.Price - quote.PrevClose) / quote.PrevClose * 100
	}

	open := marketOpen
	book.Quotes["sp500"] = domain.PriceQuote{
		Price:      quote.Price,
		Change24h:  change,
		MarketOpen: &open,
	}
}

// publish fans the refreshed book out to websocket subscribers, if a
// publisher is wired.
func (s *Service) publish(book domain.QuoteBook) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(struct {
		Event  string           `json:"event"`
		Prices domain.QuoteBook `json:"prices"`
	}{
		Event:  "prices",
		Prices: book,
	})
	if err != nil {
		return
	}
	s.publisher.Publish("prices", payload)
}
