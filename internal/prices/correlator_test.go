package prices

import (
	"testing"
	"time"

	"github.com/polyscan/polyscan/internal/domain"
)

func fullBook() domain.QuoteBook {
	book := domain.NewQuoteBook(time.Now())
	book.Quotes["btc"] = domain.PriceQuote{Price: 100000}
	book.Quotes["eth"] = domain.PriceQuote{Price: 5000}
	book.Quotes["sol"] = domain.PriceQuote{Price: 250}
	book.Quotes["xrp"] = domain.PriceQuote{Price: 3}
	book.Quotes["sp500"] = domain.PriceQuote{Price: 6000}
	book.Quotes["gold"] = domain.PriceQuote{Price: 2700}
	return book
}

func TestCorrelate(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		wantAsset string // "" means no match
	}{
		{"bitcoin by name", "Will Bitcoin reach $150,000?", "Bitcoin"},
		{"btc ticker", "Will BTC flip gold?", "Bitcoin"},
		{"ethereum", "Ethereum above $6,000 this year?", "Ethereum"},
		{"solana", "Will Solana outperform?", "Solana"},
		{"sol inside word does not match", "Will the resolution pass?", ""},
		{"eth inside word does not match", "Will Bethesda announce a sequel?", ""},
		{"xrp via ripple", "Ripple lawsuit settled?", "XRP"},
		{"sp500 ampersand form", "Will S&P close above 6000?", "S&P 500"},
		{"spx ticker", "SPX new all-time high?", "S&P 500"},
		{"gold", "Gold above $3,000?", "Gold"},
		{"no asset", "Who wins the election?", ""},
		{"btc beats gold when both match", "Will BTC flip gold this cycle?", "Bitcoin"},
	}

	book := fullBook()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Correlate(tt.question, book)
			if tt.wantAsset == "" {
				if got != nil {
					t.Fatalf("Correlate(%q) = %+v, want nil", tt.question, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Correlate(%q) = nil, want asset %q", tt.question, tt.wantAsset)
			}
			if got.Asset != tt.wantAsset {
				t.Errorf("Correlate(%q).Asset = %q, want %q", tt.question, got.Asset, tt.wantAsset)
			}
		})
	}
}

func TestCorrelateSkipsMissingBookEntry(t *testing.T) {
	book := domain.NewQuoteBook(time.Now())
	book.Quotes["gold"] = domain.PriceQuote{Price: 2700}

	// Matches the bitcoin rule first, but btc is absent from the book, so the
	// later gold rule must win.
	got := Correlate("Will BTC flip gold?", book)
	if got == nil {
		t.Fatal("Correlate returned nil, want gold quote")
	}
	if got.Asset != "Gold" {
		t.Errorf("Asset = %q, want %q", got.Asset, "Gold")
	}
}

func TestCorrelateDoesNotMutateBook(t *testing.T) {
	book := fullBook()
	got := Correlate("Bitcoin to the moon?", book)
	if got == nil {
		t.Fatal("Correlate returned nil")
	}
	got.Price = -1
	if book.Quotes["btc"].Price != 100000 {
		t.Error("Correlate must return a copy, not a reference into the book")
	}
}
