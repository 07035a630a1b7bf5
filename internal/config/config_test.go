package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := Load()

	if cfg.MLBAPIBaseURL != "https://statsapi.mlb.com" {
		t.Errorf("base url = %q", cfg.MLBAPIBaseURL)
	}
	if cfg.HTTPMaxRetries != 3 {
		t.Errorf("retries = %d, want 3", cfg.HTTPMaxRetries)
	}
	if cfg.ScheduleTTL != 30*time.Minute {
		t.Errorf("schedule ttl = %v, want 30m", cfg.ScheduleTTL)
	}
	if cfg.BoxscoreTTL != 10*time.Minute {
		t.Errorf("boxscore ttl = %v, want 10m", cfg.BoxscoreTTL)
	}
	if cfg.LiveFeedTTL != 30*time.Second {
		t.Errorf("live ttl = %v, want 30s", cfg.LiveFeedTTL)
	}
	if cfg.PrefetchSchedule != "@every 2m" {
		t.Errorf("prefetch schedule = %q", cfg.PrefetchSchedule)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MLB_API_BASE_URL", "http://localhost:9999/")
	t.Setenv("HTTP_MAX_RETRIES", "7")
	t.Setenv("SCHEDULE_TTL", "5m")
	t.Setenv("UPSTREAM_RPS", "2.5")
	t.Setenv("DISABLE_PREFETCH", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "DEBUG")
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := Load()

	if cfg.MLBAPIBaseURL != "http://localhost:9999" {
		t.Errorf("base url = %q, want trailing slash trimmed", cfg.MLBAPIBaseURL)
	}
	if cfg.HTTPMaxRetries != 7 {
		t.Errorf("retries = %d, want 7", cfg.HTTPMaxRetries)
	}
	if cfg.ScheduleTTL != 5*time.Minute {
		t.Errorf("schedule ttl = %v, want 5m", cfg.ScheduleTTL)
	}
	if cfg.UpstreamRPS != 2.5 {
		t.Errorf("rps = %f, want 2.5", cfg.UpstreamRPS)
	}
	if !cfg.DisablePrefetch {
		t.Error("expected prefetch disabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want lowercased debug", cfg.LogLevel)
	}
}

func TestLoadCachesUntilReset(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := Load()
	t.Setenv("HTTP_MAX_RETRIES", "9")
	if second := Load(); second != first {
		t.Error("Load must return the cached instance")
	}

	ResetForTest()
	if third := Load(); third.HTTPMaxRetries != 9 {
		t.Errorf("retries after reset = %d, want 9", third.HTTPMaxRetries)
	}
}
