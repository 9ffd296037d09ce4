package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYSCAN_* environment variable overrides, and
// returns the final Config. A missing file is not an error: the defaults plus
// environment overrides are used so the scanner can run with zero config.
// The returned Config has NOT been validated; the caller should invoke
// Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYSCAN_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators tweak deploys without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "POLYSCAN_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "POLYSCAN_SERVER_CORS_ORIGINS")
	setFloat64(&cfg.Server.RateLimitRPS, "POLYSCAN_SERVER_RATE_LIMIT_RPS")
	setInt(&cfg.Server.RateLimitBurst, "POLYSCAN_SERVER_RATE_LIMIT_BURST")

	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "POLYSCAN_POLYMARKET_GAMMA_HOST")
	setInt(&cfg.Polymarket.Pages, "POLYSCAN_POLYMARKET_PAGES")
	setInt(&cfg.Polymarket.PageSize, "POLYSCAN_POLYMARKET_PAGE_SIZE")

	// ── News ──
	setStr(&cfg.News.FeedHost, "POLYSCAN_NEWS_FEED_HOST")
	setStr(&cfg.News.UserAgent, "POLYSCAN_NEWS_USER_AGENT")
	setDuration(&cfg.News.LookupTimeout, "POLYSCAN_NEWS_LOOKUP_TIMEOUT")
	setInt(&cfg.News.TopMarkets, "POLYSCAN_NEWS_TOP_MARKETS")
	setInt(&cfg.News.MaxQueries, "POLYSCAN_NEWS_MAX_QUERIES")
	setInt(&cfg.News.BatchSize, "POLYSCAN_NEWS_BATCH_SIZE")
	setInt(&cfg.News.MaxItems, "POLYSCAN_NEWS_MAX_ITEMS")

	// ── Prices ──
	setStr(&cfg.Prices.CoinGeckoHost, "POLYSCAN_PRICES_COINGECKO_HOST")
	setStr(&cfg.Prices.YahooHost, "POLYSCAN_PRICES_YAHOO_HOST")
	setStr(&cfg.Prices.YahooFallbackHost, "POLYSCAN_PRICES_YAHOO_FALLBACK_HOST")
	setStr(&cfg.Prices.UserAgent, "POLYSCAN_PRICES_USER_AGENT")
	setDuration(&cfg.Prices.CacheTTL, "POLYSCAN_PRICES_CACHE_TTL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "POLYSCAN_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "POLYSCAN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYSCAN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYSCAN_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POLYSCAN_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POLYSCAN_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POLYSCAN_REDIS_TLS_ENABLED")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "POLYSCAN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
