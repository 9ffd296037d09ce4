// Package memory implements the quote cache as an in-process value with a
// timestamp-based freshness window. This is the default backend; nothing it
// holds outlives the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/polyscan/polyscan/internal/domain"
)

// QuoteCache holds the latest QuoteBook and the time it was stored.
type QuoteCache struct {
	ttl time.Duration

	mu    sync.RWMutex
	book  domain.QuoteBook
	setAt time.Time
}

// NewQuoteCache creates a QuoteCache whose entries stay fresh for ttl.
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	return &QuoteCache{ttl: ttl}
}

// Get returns the cached book, or domain.ErrCacheMiss when nothing has been
// stored yet or the stored value has aged past the freshness window.
func (c *QuoteCache) Get(_ context.Context) (domain.QuoteBook, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.setAt.IsZero() || time.Since(c.setAt) >= c.ttl {
		return domain.QuoteBook{}, domain.ErrCacheMiss
	}
	return c.book, nil
}

// Set stores the book and restarts the freshness window.
func (c *QuoteCache) Set(_ context.Context, book domain.QuoteBook) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.book = book
	c.setAt = time.Now()
	return nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
