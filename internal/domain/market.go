package domain

// Market represents a Polymarket prediction market as served by the listing
// endpoint. News and RelevantLivePrice are enrichment fields attached per
// response cycle; they have no existence outside a single response.
type Market struct {
	ID        string  `json:"id"`
	Question  string  `json:"question"`
	Slug      string  `json:"slug,omitempty"`
	Active    bool    `json:"active"`
	Closed    bool    `json:"closed"`
	Volume24h float64 `json:"volume24hr"`
	EndDate   string  `json:"endDate,omitempty"`

	News              []NewsItem  `json:"news,omitempty"`
	RelevantLivePrice *PriceQuote `json:"relevantLivePrice,omitempty"`
}
