package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polyscan/polyscan/internal/domain"
)

// quoteKey is the single key holding the latest QuoteBook snapshot. The
// freshness window is enforced server-side through the key's TTL, so every
// scanner instance sharing the Redis sees the same fresh-or-miss answer.
const quoteKey = "quotes:latest"

// QuoteCache implements domain.QuoteCache on Redis. It is the optional
// backend for multi-instance deployments; single instances use the in-memory
// cache instead.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a QuoteCache backed by the given Client with the
// given freshness window.
func NewQuoteCache(c *Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: c.rdb, ttl: ttl}
}

// Get returns the cached book, or domain.ErrCacheMiss once the key's TTL has
// expired it.
func (qc *QuoteCache) Get(ctx context.Context) (domain.QuoteBook, error) {
	data, err := qc.rdb.Get(ctx, quoteKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuoteBook{}, domain.ErrCacheMiss
	}
	if err != nil {
		return domain.QuoteBook{}, fmt.Errorf("redis: get quotes: %w", err)
	}

	var book domain.QuoteBook
	if err := json.Unmarshal(data, &book); err != nil {
		return domain.QuoteBook{}, fmt.Errorf("redis: decode quotes: %w", err)
	}
	return book, nil
}

// Set stores the book as a JSON snapshot with the freshness window as TTL.
func (qc *QuoteCache) Set(ctx context.Context, book domain.QuoteBook) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("redis: encode quotes: %w", err)
	}
	if err := qc.rdb.Set(ctx, quoteKey, data, qc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set quotes: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
