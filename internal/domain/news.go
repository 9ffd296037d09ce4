package domain

// NewsItem is a single headline extracted from a news feed lookup. PublishedAt
// is the raw feed timestamp string; it is passed through, never parsed.
type NewsItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Description string `json:"description"`
}
