package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/polyscan/polyscan/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number, a numeric string, or null. The
// Gamma API sends volume figures in all three shapes; null and garbage both
// decode to zero so a missing activity metric ranks last, never errors.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

// APIMarket represents a market as returned by the Polymarket Gamma API,
// restricted to the fields the scanner serves.
type APIMarket struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Slug      string    `json:"slug"`
	Active    flexBool  `json:"active"` // API may send bool or "true"/"false" string
	Closed    bool      `json:"closed"`
	Volume24h flexFloat `json:"volume24hr"`
	EndDate   string    `json:"endDate"`
}

// ToDomainMarket converts an APIMarket to a domain.Market.
func (a *APIMarket) ToDomainMarket() domain.Market {
	return domain.Market{
		ID:        a.ID,
		Question:  a.Question,
		Slug:      a.Slug,
		Active:    bool(a.Active),
		Closed:    a.Closed,
		Volume24h: float64(a.Volume24h),
		EndDate:   a.EndDate,
	}
}
