package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PriceQuote is a point-in-time reference price for one tracked asset or
// index. MarketOpen is only set for traditional-market assets that have
// trading hours (currently sp500).
type PriceQuote struct {
	Asset      string  `json:"asset,omitempty"`
	Price      float64 `json:"price"`
	Change24h  float64 `json:"change24h"`
	MarketOpen *bool   `json:"marketOpen,omitempty"`
}

// QuoteBook holds the latest reference prices keyed by asset code (btc, eth,
// sol, xrp, sp500, gold). It marshals flat, with the asset codes as top-level
// keys next to fetchedAt, matching the shape of the prices endpoint.
type QuoteBook struct {
	Quotes    map[string]PriceQuote
	FetchedAt time.Time
}

// NewQuoteBook returns an empty QuoteBook stamped with the given fetch time.
func NewQuoteBook(fetchedAt time.Time) QuoteBook {
	return QuoteBook{
		Quotes:    make(map[string]PriceQuote),
		FetchedAt: fetchedAt,
	}
}

// Get returns the quote for an asset code, reporting whether it is present.
func (b QuoteBook) Get(code string) (PriceQuote, bool) {
	q, ok := b.Quotes[code]
	return q, ok
}

// MarshalJSON flattens the book into {"btc":{...},...,"fetchedAt":"..."}.
func (b QuoteBook) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Quotes)+1)
	for code, q := range b.Quotes {
		out[code] = q
	}
	if !b.FetchedAt.IsZero() {
		out["fetchedAt"] = b.FetchedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON. Unknown keys are assumed to be asset
// codes so newly tracked assets round-trip without a schema change.
func (b *QuoteBook) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("quote book: %w", err)
	}
	b.Quotes = make(map[string]PriceQuote, len(raw))
	for key, val := range raw {
		if key == "fetchedAt" {
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("quote book: fetchedAt: %w", err)
			}
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				b.FetchedAt = t
			}
			continue
		}
		var q PriceQuote
		if err := json.Unmarshal(val, &q); err != nil {
			return fmt.Errorf("quote book: asset %s: %w", key, err)
		}
		b.Quotes[key] = q
	}
	return nil
}
