// Package config defines the top-level configuration for the market scanner
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by POLYSCAN_* environment variables.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	News       NewsConfig       `toml:"news"`
	Prices     PricesConfig     `toml:"prices"`
	Redis      RedisConfig      `toml:"redis"`
	LogLevel   string           `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port           int      `toml:"port"`
	CORSOrigins    []string `toml:"cors_origins"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
}

// PolymarketConfig holds the Gamma API endpoint and the listing page plan.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	Pages     int    `toml:"pages"`
	PageSize  int    `toml:"page_size"`
}

// NewsConfig holds the news feed endpoint and enrichment bounds.
type NewsConfig struct {
	FeedHost      string   `toml:"feed_host"`
	UserAgent     string   `toml:"user_agent"`
	LookupTimeout duration `toml:"lookup_timeout"`
	TopMarkets    int      `toml:"top_markets"`
	MaxQueries    int      `toml:"max_queries"`
	BatchSize     int      `toml:"batch_size"`
	MaxItems      int      `toml:"max_items"`
}

// PricesConfig holds the reference price endpoints and cache freshness window.
type PricesConfig struct {
	CoinGeckoHost     string   `toml:"coingecko_host"`
	YahooHost         string   `toml:"yahoo_host"`
	YahooFallbackHost string   `toml:"yahoo_fallback_host"`
	UserAgent         string   `toml:"user_agent"`
	CacheTTL          duration `toml:"cache_ttl"`
}

// RedisConfig holds the optional Redis quote-cache parameters. When Enabled is
// false the scanner uses its in-process cache and never dials Redis.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5s", "1m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5s" or "1m".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8000,
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			Pages:     3,
			PageSize:  100,
		},
		News: NewsConfig{
			FeedHost:      "https://news.google.com",
			UserAgent:     "Mozilla/5.0 (compatible; PolymarketScanner/1.0)",
			LookupTimeout: duration{5 * time.Second},
			TopMarkets:    50,
			MaxQueries:    25,
			BatchSize:     10,
			MaxItems:      5,
		},
		Prices: PricesConfig{
			CoinGeckoHost:     "https://api.coingecko.com",
			YahooHost:         "https://query1.finance.yahoo.com",
			YahooFallbackHost: "https://query2.finance.yahoo.com",
			UserAgent:         "PolymarketScanner/1.0",
			CacheTTL:          duration{60 * time.Second},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimitRPS <= 0 {
		errs = append(errs, "server: rate_limit_rps must be > 0")
	}
	if c.Server.RateLimitBurst < 1 {
		errs = append(errs, "server: rate_limit_burst must be >= 1")
	}

	// Polymarket
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.Pages < 1 {
		errs = append(errs, "polymarket: pages must be >= 1")
	}
	if c.Polymarket.PageSize < 1 {
		errs = append(errs, "polymarket: page_size must be >= 1")
	}

	// News
	if c.News.FeedHost == "" {
		errs = append(errs, "news: feed_host must not be empty")
	}
	if c.News.LookupTimeout.Duration <= 0 {
		errs = append(errs, "news: lookup_timeout must be > 0")
	}
	if c.News.TopMarkets < 1 {
		errs = append(errs, "news: top_markets must be >= 1")
	}
	if c.News.MaxQueries < 1 {
		errs = append(errs, "news: max_queries must be >= 1")
	}
	if c.News.BatchSize < 1 {
		errs = append(errs, "news: batch_size must be >= 1")
	}
	if c.News.MaxItems < 1 {
		errs = append(errs, "news: max_items must be >= 1")
	}

	// Prices
	if c.Prices.CoinGeckoHost == "" {
		errs = append(errs, "prices: coingecko_host must not be empty")
	}
	if c.Prices.YahooHost == "" {
		errs = append(errs, "prices: yahoo_host must not be empty")
	}
	if c.Prices.CacheTTL.Duration <= 0 {
		errs = append(errs, "prices: cache_ttl must be > 0")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
