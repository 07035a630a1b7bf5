package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream fetch metrics
	UpstreamHTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_http_requests_total",
			Help: "Total number of HTTP requests made to the stats provider",
		},
		[]string{"status"}, // status: success, retry, error
	)

	UpstreamHTTPRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upstream_http_retries_total",
			Help: "Total number of upstream HTTP request retries",
		},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"}, // endpoint: schedule, live_feed
	)

	UpstreamRateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upstream_rate_limit_waits_total",
			Help: "Total number of times a fetch waited for the upstream rate limit",
		},
	)

	UpstreamQueueWaits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_queue_wait_seconds",
			Help:    "Time requests spent queued for an upstream concurrency slot",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	// Coalescer metrics
	CoalescedFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coalesced_fetches_total",
			Help: "Total number of fetches that joined an in-flight request",
		},
	)

	// Domain cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"domain"}, // domain: schedule, boxscore, live_feed
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"domain"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"domain"},
	)

	CacheItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_items",
			Help: "Current number of items per cache domain",
		},
		[]string{"domain"},
	)

	// Resource registry metrics
	RegistryResources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_resources",
			Help: "Number of resources currently registered",
		},
	)

	RegistrySizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_size_bytes",
			Help: "Total estimated size of registered resources in bytes",
		},
	)

	RegistryEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_evictions_total",
			Help: "Total number of resources evicted from the registry",
		},
		[]string{"reason"}, // reason: age, memory, replaced, explicit
	)

	// Prefetcher metrics
	PrefetchJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_jobs_total",
			Help: "Total number of prefetch jobs processed",
		},
		[]string{"status"}, // status: success, retried, failed
	)

	PrefetchBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prefetch_batch_duration_seconds",
			Help:    "Duration of prefetch batches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PrefetchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prefetch_queue_depth",
			Help: "Number of keys waiting to be prefetched",
		},
	)

	// Normalizer metrics
	NormalizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "normalize_duration_seconds",
			Help:    "Duration of feed normalization in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	NormalizeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalize_fallbacks_total",
			Help: "Total number of times the normalizer used a fallback path",
		},
		[]string{"kind"}, // kind: linescore, boxscore_innings, play_by_play, substitution, supplementary
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"component"},
	)

	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_trips_total",
			Help: "Total number of circuit breaker trips",
		},
		[]string{"component"},
	)

	// API response cache metrics
	APICacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_hits_total",
			Help: "Total number of API response cache hits",
		},
		[]string{"endpoint"},
	)

	APICacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_misses_total",
			Help: "Total number of API response cache misses",
		},
		[]string{"endpoint"},
	)

	// API request metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent to clients",
		},
	)
)
