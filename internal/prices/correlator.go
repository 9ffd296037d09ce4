// Package prices fetches reference quotes for the tracked asset catalog and
// correlates them against market questions.
package prices

import (
	"regexp"
	"strings"

	"github.com/polyscan/polyscan/internal/domain"
)

// correlationRule links a question pattern to a QuoteBook asset code.
type correlationRule struct {
	re    *regexp.Regexp
	code  string
	label string
}

// correlationRules are checked in declaration order; the order is significant
// for questions matching several patterns, so the table must never be sorted
// or reordered. Short ticker codes require word boundaries so "sol" does not
// match inside "resolution".
var correlationRules = []correlationRule{
	{regexp.MustCompile(`\bbtc\b|bitcoin`), "btc", "Bitcoin"},
	{regexp.MustCompile(`\beth\b|ethereum`), "eth", "Ethereum"},
	{regexp.MustCompile(`\bsol\b|solana`), "sol", "Solana"},
	{regexp.MustCompile(`\bxrp\b|ripple`), "xrp", "XRP"},
	{regexp.MustCompile(`s&p|sp500|\bspx\b`), "sp500", "S&P 500"},
	{regexp.MustCompile(`\bgold\b`), "gold", "Gold"},
}

// Correlate matches a market question against the tracked asset catalog and
// returns the corresponding quote annotated with its asset label. The first
// rule that both matches the question and has an entry in the book wins; a
// rule whose asset is missing from the book is skipped, not a failure. No
// match returns nil.
func Correlate(question string, book domain.QuoteBook) *domain.PriceQuote {
	q := strings.ToLower(question)
	for _, rule := range correlationRules {
		if !rule.re.MatchString(q) {
			continue
		}
		quote, ok := book.Get(rule.code)
		if !ok {
			continue
		}
		quote.Asset = rule.label
		return &quote
	}
	return nil
}
