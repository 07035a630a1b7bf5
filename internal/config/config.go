package config

import (
	"os"
	"strings"
	"time"

	"github.com/onnwee/scorebook/backend/internal/utils"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	// Upstream (MLB Stats API)
	UserAgent      string
	MLBAPIBaseURL  string
	HTTPMaxRetries int
	HTTPRetryBase  time.Duration
	HTTPTimeout    time.Duration
	LogHTTPRetries bool
	// Upstream pacing and admission
	FetchMaxConcurrent int     // global ceiling on simultaneous upstream calls
	UpstreamRPS        float64 // requests per second to the stats provider
	UpstreamBurstSize  int     // burst size for upstream rate limit
	// Circuit breaker for the upstream provider
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	BreakerTimeout          time.Duration
	// Cache TTLs and capacities (per logical domain)
	ScheduleTTL        time.Duration
	BoxscoreTTL        time.Duration
	LiveFeedTTL        time.Duration
	CacheMaxEntries    int
	CacheSweepInterval time.Duration
	// API response cache (serialized payloads)
	RespCacheMaxSizeMB int64
	RespCacheEntries   int64
	RespCacheTTL       time.Duration
	// Resource registry
	RegistryMemoryThreshold int64 // bytes; eviction kicks in above this
	RegistryMaxAge          time.Duration
	RegistryInterval        time.Duration
	// Prefetcher
	PrefetchBatchSize   int
	PrefetchConcurrency int
	PrefetchPacing      time.Duration
	PrefetchMaxAttempts int
	PrefetchRetryBase   time.Duration
	PrefetchSchedule    string // @every/@hourly expression
	DisablePrefetch     bool
	// Security settings
	RateLimitGlobal      float64  // requests per second globally
	RateLimitGlobalBurst int      // burst size for global rate limit
	RateLimitPerIP       float64  // requests per second per IP
	RateLimitPerIPBurst  int      // burst size for per-IP rate limit
	CORSAllowedOrigins   []string // allowed CORS origins
	EnableRateLimit      bool     // enable rate limiting middleware
	// Observability settings
	LogLevel          string  // log level: debug, info, warn, error
	OTELEnabled       bool    // enable OpenTelemetry tracing
	OTELEndpoint      string  // OpenTelemetry collector endpoint
	OTELSampleRate    float64 // trace sampling rate (0.0 to 1.0)
	SentryDSN         string  // Sentry DSN for error reporting
	SentryEnvironment string  // Sentry environment (dev, staging, production)
	SentryRelease     string  // Sentry release version
	SentrySampleRate  float64 // Sentry error sampling rate (0.0 to 1.0)
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}
	ua := os.Getenv("SCOREBOOK_USER_AGENT")
	if strings.TrimSpace(ua) == "" {
		ua = "scorebook/0.1"
	}
	base := strings.TrimSpace(os.Getenv("MLB_API_BASE_URL"))
	if base == "" {
		base = "https://statsapi.mlb.com"
	}
	cached = &Config{
		UserAgent:      ua,
		MLBAPIBaseURL:  strings.TrimRight(base, "/"),
		HTTPMaxRetries: utils.GetEnvAsInt("HTTP_MAX_RETRIES", 3),
		HTTPRetryBase:  time.Duration(utils.GetEnvAsInt("HTTP_RETRY_BASE_MS", 300)) * time.Millisecond,
		HTTPTimeout:    time.Duration(utils.GetEnvAsInt("HTTP_TIMEOUT_MS", 15000)) * time.Millisecond,
		LogHTTPRetries: utils.GetEnvAsBool("LOG_HTTP_RETRIES", false),

		FetchMaxConcurrent: utils.GetEnvAsInt("FETCH_MAX_CONCURRENT", 4),
		// Default to ~5 rps; the stats provider is lenient but not unmetered
		UpstreamRPS:       utils.GetEnvAsFloat("UPSTREAM_RPS", 5.0),
		UpstreamBurstSize: utils.GetEnvAsInt("UPSTREAM_BURST_SIZE", 2),

		BreakerFailureThreshold: utils.GetEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerSuccessThreshold: utils.GetEnvAsInt("BREAKER_SUCCESS_THRESHOLD", 2),
		BreakerTimeout:          utils.GetEnvAsDuration("BREAKER_TIMEOUT", 60*time.Second),

		// Live feeds change every pitch; schedules barely change at all
		ScheduleTTL:        utils.GetEnvAsDuration("SCHEDULE_TTL", 30*time.Minute),
		BoxscoreTTL:        utils.GetEnvAsDuration("BOXSCORE_TTL", 10*time.Minute),
		LiveFeedTTL:        utils.GetEnvAsDuration("LIVE_FEED_TTL", 30*time.Second),
		CacheMaxEntries:    utils.GetEnvAsInt("CACHE_MAX_ENTRIES", 500),
		CacheSweepInterval: utils.GetEnvAsDuration("CACHE_SWEEP_INTERVAL", 60*time.Second),

		RespCacheMaxSizeMB: utils.GetEnvAsInt64("RESP_CACHE_MAX_SIZE_MB", 32),
		RespCacheEntries:   utils.GetEnvAsInt64("RESP_CACHE_ENTRIES", 2000),
		RespCacheTTL:       utils.GetEnvAsDuration("RESP_CACHE_TTL", 30*time.Second),

		RegistryMemoryThreshold: utils.GetEnvAsInt64("REGISTRY_MEMORY_THRESHOLD", 64*1024*1024),
		RegistryMaxAge:          utils.GetEnvAsDuration("REGISTRY_MAX_AGE", 30*time.Minute),
		RegistryInterval:        utils.GetEnvAsDuration("REGISTRY_INTERVAL", 60*time.Second),

		PrefetchBatchSize:   utils.GetEnvAsInt("PREFETCH_BATCH_SIZE", 4),
		PrefetchConcurrency: utils.GetEnvAsInt("PREFETCH_CONCURRENCY", 2),
		PrefetchPacing:      utils.GetEnvAsDuration("PREFETCH_PACING", 500*time.Millisecond),
		PrefetchMaxAttempts: utils.GetEnvAsInt("PREFETCH_MAX_ATTEMPTS", 3),
		PrefetchRetryBase:   utils.GetEnvAsDuration("PREFETCH_RETRY_BASE", 2*time.Second),
		PrefetchSchedule:    strings.TrimSpace(os.Getenv("PREFETCH_SCHEDULE")),
		DisablePrefetch:     utils.GetEnvAsBool("DISABLE_PREFETCH", false),

		// Security settings with sensible defaults
		RateLimitGlobal:      utils.GetEnvAsFloat("RATE_LIMIT_GLOBAL", 100.0),
		RateLimitGlobalBurst: utils.GetEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 200),
		RateLimitPerIP:       utils.GetEnvAsFloat("RATE_LIMIT_PER_IP", 10.0),
		RateLimitPerIPBurst:  utils.GetEnvAsInt("RATE_LIMIT_PER_IP_BURST", 20),
		EnableRateLimit:      utils.GetEnvAsBool("ENABLE_RATE_LIMIT", true),

		// Observability settings
		LogLevel:          strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		OTELEnabled:       utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTELSampleRate:    utils.GetEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
		SentryDSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		SentryEnvironment: strings.TrimSpace(os.Getenv("SENTRY_ENVIRONMENT")),
		SentryRelease:     strings.TrimSpace(os.Getenv("SENTRY_RELEASE")),
		SentrySampleRate:  utils.GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
	}
	if cached.PrefetchSchedule == "" {
		cached.PrefetchSchedule = "@every 2m"
	}
	if cached.LogLevel == "" {
		cached.LogLevel = "info"
	}
	if cached.SentryEnvironment == "" {
		if env := os.Getenv("ENV"); env != "" {
			cached.SentryEnvironment = env
		} else {
			cached.SentryEnvironment = "development"
		}
	}

	// Parse CORS allowed origins
	corsOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if corsOrigins == "" {
		// Default to common development origins
		cached.CORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	} else {
		cached.CORSAllowedOrigins = strings.Split(corsOrigins, ",")
		for i := range cached.CORSAllowedOrigins {
			cached.CORSAllowedOrigins[i] = strings.TrimSpace(cached.CORSAllowedOrigins[i])
		}
	}

	return cached
}

// ResetForTest clears cached config; for use in tests only.
func ResetForTest() { cached = nil }
