package domain

import "context"

// QuoteCache stores the most recent QuoteBook for a bounded freshness window.
// Get returns ErrCacheMiss when no fresh value is available; implementations
// decide freshness (in-memory timestamp check, Redis key TTL).
type QuoteCache interface {
	Get(ctx context.Context) (QuoteBook, error)
	Set(ctx context.Context, book QuoteBook) error
}
