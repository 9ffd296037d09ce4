package polymarket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polyscan/polyscan/internal/domain"
)

func TestGetMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Errorf("path = %q, want /markets", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("closed") != "false" {
			t.Errorf("closed = %q, want false", q.Get("closed"))
		}
		if q.Get("limit") != "100" || q.Get("offset") != "200" {
			t.Errorf("pagination = limit %q offset %q", q.Get("limit"), q.Get("offset"))
		}
		if q.Get("order") != "volume24hr" || q.Get("ascending") != "false" {
			t.Errorf("ordering = %q ascending %q", q.Get("order"), q.Get("ascending"))
		}

		w.Header().Set("Content-Type", "application/json")
		// Field shapes vary per market: bools and volumes arrive as native
		// types, quoted strings, or null.
		w.Write([]byte(`[
			{"id":"1","question":"Will BTC hit $100K?","slug":"btc-100k","active":true,"closed":false,"volume24hr":12345.6,"endDate":"2026-12-31"},
			{"id":"2","question":"Fed cut?","active":"true","closed":false,"volume24hr":"987.5"},
			{"id":"3","question":"Null volume?","active":false,"closed":true,"volume24hr":null}
		]`))
	}))
	defer srv.Close()

	client := NewGammaClient(srv.URL)
	markets, err := client.GetMarkets(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("GetMarkets: %v", err)
	}
	if len(markets) != 3 {
		t.Fatalf("got %d markets, want 3", len(markets))
	}

	if markets[0].ID != "1" || !markets[0].Active || markets[0].Volume24h != 12345.6 {
		t.Errorf("markets[0] = %+v", markets[0])
	}
	if !markets[1].Active || markets[1].Volume24h != 987.5 {
		t.Errorf("string-typed fields not coerced: %+v", markets[1])
	}
	if markets[2].Active || markets[2].Volume24h != 0 {
		t.Errorf("null volume should decode to zero: %+v", markets[2])
	}
}

func TestGetMarket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/42" {
			t.Errorf("path = %q, want /markets/42", r.URL.Path)
		}
		w.Write([]byte(`{"id":"42","question":"Single market?","active":true,"closed":false,"volume24hr":10}`))
	}))
	defer srv.Close()

	client := NewGammaClient(srv.URL)
	m, err := client.GetMarket(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetMarket: %v", err)
	}
	if m.ID != "42" || m.Question != "Single market?" {
		t.Errorf("market = %+v", m)
	}
}

func TestGetMarketNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewGammaClient(srv.URL)
	_, err := client.GetMarket(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetMarketsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewGammaClient(srv.URL)
	_, err := client.GetMarkets(context.Background(), 100, 0)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestFlexFloatGarbageDecodesToZero(t *testing.T) {
	var f flexFloat
	if err := f.UnmarshalJSON([]byte(`"n/a"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if f != 0 {
		t.Errorf("f = %v, want 0", f)
	}
}
