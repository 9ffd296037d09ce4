package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults() must validate: %v", err)
	}
}

func TestDefaultsValues(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Polymarket.Pages != 3 || cfg.Polymarket.PageSize != 100 {
		t.Errorf("page plan = %d x %d, want 3 x 100", cfg.Polymarket.Pages, cfg.Polymarket.PageSize)
	}
	if cfg.News.TopMarkets != 50 || cfg.News.MaxQueries != 25 || cfg.News.BatchSize != 10 || cfg.News.MaxItems != 5 {
		t.Errorf("news bounds = %+v", cfg.News)
	}
	if cfg.News.LookupTimeout.Duration != 5*time.Second {
		t.Errorf("LookupTimeout = %v, want 5s", cfg.News.LookupTimeout.Duration)
	}
	if cfg.Prices.CacheTTL.Duration != 60*time.Second {
		t.Errorf("CacheTTL = %v, want 60s", cfg.Prices.CacheTTL.Duration)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis must be disabled by default")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != Defaults().Server.Port {
		t.Errorf("Port = %d, want default %d", cfg.Server.Port, Defaults().Server.Port)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
log_level = "debug"

[server]
port = 9000

[news]
lookup_timeout = "2s"
batch_size = 4

[redis]
enabled = true
addr = "redis:6379"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.News.LookupTimeout.Duration != 2*time.Second {
		t.Errorf("LookupTimeout = %v, want 2s", cfg.News.LookupTimeout.Duration)
	}
	if cfg.News.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.News.BatchSize)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	// Fields the file omits keep their defaults.
	if cfg.Polymarket.GammaHost != Defaults().Polymarket.GammaHost {
		t.Errorf("GammaHost = %q, want default", cfg.Polymarket.GammaHost)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POLYSCAN_SERVER_PORT", "9100")
	t.Setenv("POLYSCAN_NEWS_LOOKUP_TIMEOUT", "7s")
	t.Setenv("POLYSCAN_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("POLYSCAN_REDIS_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.News.LookupTimeout.Duration != 7*time.Second {
		t.Errorf("LookupTimeout = %v, want 7s", cfg.News.LookupTimeout.Duration)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis.Enabled should be overridden to true")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	cfg.Polymarket.GammaHost = ""
	cfg.News.BatchSize = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	for _, want := range []string{"port", "gamma_host", "batch_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err.Error(), want)
		}
	}
}
