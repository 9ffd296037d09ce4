package news

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polyscan/polyscan/internal/domain"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Search results</title>
<item>
  <title>Bitcoin tops $100K &amp; keeps climbing</title>
  <link>https://example.com/btc-100k</link>
  <pubDate>Mon, 31 Aug 2026 12:00:00 GMT</pubDate>
  <source url="https://example.com">Example Wire</source>
  <description><a href="x">Bitcoin</a> breaks through</description>
</item>
<item>
  <title><![CDATA[Fed holds rates steady]]></title>
  <link>https://example.com/fed</link>
  <pubDate>Mon, 31 Aug 2026 11:00:00 GMT</pubDate>
  <source url="https://example.com">Example Wire</source>
  <description>No change this cycle</description>
</item>
<item>
  <link>https://example.com/untitled</link>
  <description>block without a title is dropped</description>
</item>
</channel></rss>`

func TestParseItems(t *testing.T) {
	items := ParseItems(sampleFeed, 0)

	assert.Len(t, items, 2, "untitled block must be dropped")

	assert.Equal(t, domain.NewsItem{
		Title:       "Bitcoin tops $100K & keeps climbing",
		URL:         "https://example.com/btc-100k",
		PublishedAt: "Mon, 31 Aug 2026 12:00:00 GMT",
		Source:      "Example Wire",
		Description: "Bitcoin breaks through",
	}, items[0])

	assert.Equal(t, "Fed holds rates steady", items[1].Title, "CDATA wrapper must be stripped")
}

func TestParseItemsMax(t *testing.T) {
	items := ParseItems(sampleFeed, 1)
	assert.Len(t, items, 1)
	assert.Equal(t, "Bitcoin tops $100K & keeps climbing", items[0].Title)
}

func TestParseItemsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		feed string
	}{
		{"empty input", ""},
		{"not xml at all", "upstream error page"},
		{"unterminated item block", "<item><title>half a feed"},
		{"html error page", "<html><body><h1>503</h1></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseItems(tt.feed, 5))
		})
	}
}

func TestParseItemsTruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 500)
	feed := "<item><title>t</title><description>" + long + "</description></item>"

	items := ParseItems(feed, 1)
	if assert.Len(t, items, 1) {
		assert.Equal(t, maxDescriptionLen, len([]rune(items[0].Description)))
	}
}

func FuzzParseItems(f *testing.F) {
	f.Add(sampleFeed)
	f.Add("<item><title>half a feed")
	f.Add("<item><description>orphaned description</description></item>")
	f.Add("<item><title><![CDATA[unclosed cdata</title></item>")
	f.Add("<item></item><item><title>t</title></item><item>")
	f.Add("")

	f.Fuzz(func(t *testing.T, feed string) {
		items := ParseItems(feed, 5)
		if len(items) > 5 {
			t.Errorf("got %d items, max is 5", len(items))
		}
		for _, item := range items {
			if item.Title == "" {
				t.Errorf("untitled item extracted from %q", feed)
			}
		}
	})
}

func TestDecodeEntities(t *testing.T) {
	got := decodeEntities(`Tom &amp; Jerry &quot;win&quot; &#39;big&#39; &lt;today&gt;`)
	assert.Equal(t, `Tom & Jerry "win" 'big' <today>`, got)
}
