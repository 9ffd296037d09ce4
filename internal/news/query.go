// Package news derives canonical search queries from market questions and
// extracts headline items from the RSS feed they are looked up against.
package news

import (
	"regexp"
	"strings"
)

// maxQueryLen bounds the derived search query.
const maxQueryLen = 100

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december`

// Rewrite rules, applied in order. Order matters: abbreviation expansion runs
// last so earlier date/verb removals see the original ticker tokens.
var (
	reLeadingWill   = regexp.MustCompile(`(?i)^will\s+`)
	reTrailingQmark = regexp.MustCompile(`\?$`)
	reByMonthDay    = regexp.MustCompile(`(?i)\bby\s+(` + monthNames + `)\s+\d{1,2}(,?\s*\d{4})?\b`)
	reInMonth       = regexp.MustCompile(`(?i)\bin\s+(` + monthNames + `)(\s+\d{4})?\b`)
	reAfterMeeting  = regexp.MustCompile(`(?i)\bafter the\s+(` + monthNames + `)\s+\d{4}\s+meeting\b`)
	reVerbs         = regexp.MustCompile(`(?i)\b(reach|hit|close above|end above|end up on)\b`)
	reQualifiedDate = regexp.MustCompile(`(?i)\b(before|after|by|on)\s+\d{1,2}/\d{1,2}\b`)
	reBareDate      = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`)
)

// abbreviations is a fixed expansion table tuned to the crypto/macro market
// domain. Exact case, word-boundary matches. New asset classes need entries
// added by hand; there is no general policy.
var abbreviations = []struct {
	re        *regexp.Regexp
	expansion string
}{
	{regexp.MustCompile(`\bS&P\b`), "S&P 500"},
	{regexp.MustCompile(`\bETH\b`), "Ethereum"},
	{regexp.MustCompile(`\bBTC\b`), "Bitcoin"},
	{regexp.MustCompile(`\bFed\b`), "Federal Reserve"},
}

// SearchTerms turns a free-text market question into a canonical search query
// for the news feed: prediction-market phrasing and calendar deadlines are
// stripped, common tickers expanded, and the result capped at 100 characters.
// It is a best-effort heuristic and never fails; inputs with nothing to
// rewrite pass through trimmed.
func SearchTerms(question string) string {
	q := reLeadingWill.ReplaceAllString(question, "")
	q = reTrailingQmark.ReplaceAllString(q, "")
	q = reByMonthDay.ReplaceAllString(q, "")
	q = reInMonth.ReplaceAllString(q, "")
	q = reAfterMeeting.ReplaceAllString(q, "")
	q = reVerbs.ReplaceAllString(q, "")
	q = reQualifiedDate.ReplaceAllString(q, "")
	q = reBareDate.ReplaceAllString(q, "")
	q = strings.TrimSpace(q)

	for _, a := range abbreviations {
		q = a.re.ReplaceAllString(q, a.expansion)
	}

	if runes := []rune(q); len(runes) > maxQueryLen {
		q = string(runes[:maxQueryLen])
	}
	return q
}
