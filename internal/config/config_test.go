package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":        "postgres://localhost/resto",
		"REDIS_URL":           "redis://localhost:6379/0",
		"JWT_SECRET":          "test-secret",
		"PORT":                "",
		"APP_ENV":             "",
		"CURRENCY_CODE":       "",
		"CATALOG_CACHE_TTL":   "",
		"STATS_CACHE_TTL":     "",
		"RATE_LIMIT_PER_MINUTE": "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("app env = %q", cfg.AppEnv)
	}
	if got := cfg.HTTPAddr(); got != ":8080" {
		t.Fatalf("http addr = %q", got)
	}
	if cfg.CurrencyCode != "JD" {
		t.Fatalf("currency = %q", cfg.CurrencyCode)
	}
	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Fatalf("catalog ttl = %v", cfg.CatalogCacheTTL)
	}
	if cfg.StatsCacheTTL != 30*time.Second {
		t.Fatalf("stats ttl = %v", cfg.StatsCacheTTL)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("rate limit = %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadRequiredVars(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "test-secret",
	})
	if err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":          "postgres://localhost/resto",
		"REDIS_URL":             "redis://localhost:6379/0",
		"JWT_SECRET":            "test-secret",
		"PORT":                  "9090",
		"CURRENCY_CODE":         "USD",
		"STATS_CACHE_TTL":       "2m",
		"RATE_LIMIT_PER_MINUTE": "30",
		"CORS_ALLOWED_ORIGINS":  "https://a.example, https://b.example",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.HTTPAddr(); got != ":9090" {
		t.Fatalf("http addr = %q", got)
	}
	if cfg.CurrencyCode != "USD" {
		t.Fatalf("currency = %q", cfg.CurrencyCode)
	}
	if cfg.StatsCacheTTL != 2*time.Minute {
		t.Fatalf("stats ttl = %v", cfg.StatsCacheTTL)
	}
	if cfg.RateLimitPerMinute != 30 {
		t.Fatalf("rate limit = %d", cfg.RateLimitPerMinute)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", cfg.CORSAllowedOrigins)
	}
}
