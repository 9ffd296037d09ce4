package news

import (
	"regexp"
	"strings"

	"github.com/polyscan/polyscan/internal/domain"
)

// maxDescriptionLen bounds item descriptions after markup stripping.
const maxDescriptionLen = 200

// The feed is scanned with pattern matching rather than an XML parser on
// purpose: partially transmitted or malformed feeds must degrade to fewer
// items, never to a parse error.
var (
	reItemBlock = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	reMarkupTag = regexp.MustCompile(`<[^>]*>`)

	reTitle       = tagPattern("title")
	reLink        = tagPattern("link")
	rePubDate     = tagPattern("pubDate")
	reSource      = tagPattern("source")
	reDescription = tagPattern("description")
)

// tagPattern matches a named tag's content, tolerating attributes on the open
// tag and an optional CDATA wrapper around the value.
func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<` + tag + `[^>]*>\s*(?:<!\[CDATA\[)?(.*?)(?:\]\]>)?\s*</` + tag + `>`)
}

// extractTag returns the trimmed content of the first match, or "" when the
// tag is absent.
func extractTag(block string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// decodeEntities decodes the small fixed set of named character entities the
// feed emits. Replacements run sequentially, so double-encoded input decodes
// one level per pass.
func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&#x27;", "'")
	return s
}

// truncateRunes caps s at n characters.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ParseItems extracts up to max structured news items from raw feed text, in
// feed order. An item block without a title is dropped; every other field
// defaults to empty. Input with no well-formed item blocks yields zero items.
// max <= 0 means unbounded.
func ParseItems(feed string, max int) []domain.NewsItem {
	var items []domain.NewsItem

	for _, block := range reItemBlock.FindAllStringSubmatch(feed, -1) {
		inner := block[1]

		title := extractTag(inner, reTitle)
		if title == "" {
			continue
		}

		description := extractTag(inner, reDescription)
		description = reMarkupTag.ReplaceAllString(description, "")
		description = truncateRunes(description, maxDescriptionLen)

		items = append(items, domain.NewsItem{
			Title:       decodeEntities(title),
			URL:         extractTag(inner, reLink),
			PublishedAt: extractTag(inner, rePubDate),
			Source:      decodeEntities(extractTag(inner, reSource)),
			Description: decodeEntities(description),
		})

		if max > 0 && len(items) >= max {
			break
		}
	}

	return items
}
