// Package fetch wraps upstream HTTP calls with bounded-concurrency
// queueing, rate-limit pacing, a circuit breaker, and exponential-backoff
// retry for transient failures.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/onnwee/scorebook/backend/internal/circuitbreaker"
	"github.com/onnwee/scorebook/backend/internal/config"
	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/metrics"
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.Code, e.URL)
}

// IsTransient classifies an error as retryable. Server errors (5xx) and
// transport failures are transient; client errors (4xx) and explicit
// cancellation are not. Per-attempt timeouts surface as a wrapped
// context.DeadlineExceeded and count as transient here; the retry loop
// separately checks the caller's context so a dead caller is never
// retried on.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	// Network or transport error
	return true
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Result carries an upstream response body plus timing for diagnostics.
type Result struct {
	Body      []byte
	Status    int
	Elapsed   time.Duration
	FetchedAt time.Time
}

// Client performs upstream GETs subject to a global concurrency ceiling.
// Excess requests queue in arrival order and are admitted as capacity
// frees up.
type Client struct {
	http       *http.Client
	sem        chan struct{}
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	maxRetries int
	baseDelay  time.Duration
	logRetries bool
	userAgent  string
}

// NewClient builds a client from config.
func NewClient(cfg *config.Config) *Client {
	maxConcurrent := cfg.FetchMaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		sem:     make(chan struct{}, maxConcurrent),
		limiter: rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurstSize),
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             "upstream",
			FailureThreshold: cfg.BreakerFailureThreshold,
			SuccessThreshold: cfg.BreakerSuccessThreshold,
			Timeout:          cfg.BreakerTimeout,
		}),
		maxRetries: cfg.HTTPMaxRetries,
		baseDelay:  cfg.HTTPRetryBase,
		logRetries: cfg.LogHTTPRetries,
		userAgent:  cfg.UserAgent,
	}
}

// Get fetches a URL. On transient failure it retries up to the configured
// retry count with delays base, 2*base, 4*base, ...; after exhausting
// retries the last error is surfaced. Client errors (4xx) are never
// retried.
func (c *Client) Get(ctx context.Context, url string) (*Result, error) {
	queued := time.Now()
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.sem }()
	metrics.UpstreamQueueWaits.Observe(time.Since(queued).Seconds())

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		metrics.UpstreamRateLimitWaits.Inc()

		res, err := c.do(ctx, url)
		if err == nil {
			metrics.UpstreamHTTPRequests.WithLabelValues("success").Inc()
			if c.logRetries && attempt > 0 {
				logger.Debug("upstream fetch succeeded after retry", "url", url, "attempt", attempt+1)
			}
			return res, nil
		}
		lastErr = err

		// a dead caller context means the deadline/cancellation is the
		// caller's, not a per-attempt timeout; no point retrying
		if ctx.Err() != nil {
			metrics.UpstreamHTTPRequests.WithLabelValues("error").Inc()
			return nil, err
		}
		if !IsTransient(err) {
			metrics.UpstreamHTTPRequests.WithLabelValues("error").Inc()
			return nil, err
		}
		if attempt == c.maxRetries {
			metrics.UpstreamHTTPRequests.WithLabelValues("error").Inc()
			break
		}

		metrics.UpstreamHTTPRequests.WithLabelValues("retry").Inc()
		metrics.UpstreamHTTPRetries.Inc()
		// backoff with jitter: base * 2^attempt
		delay := c.baseDelay * (1 << attempt)
		delay += time.Duration(rand.Intn(50)) * time.Millisecond
		if c.logRetries {
			logger.Debug("upstream fetch failed, backing off", "url", url, "attempt", attempt+1, "wait", delay, "error", err)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// do performs a single attempt through the circuit breaker.
func (c *Client) do(ctx context.Context, url string) (*Result, error) {
	var result *Result
	err := c.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return &StatusError{Code: resp.StatusCode, URL: url}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		result = &Result{
			Body:      body,
			Status:    resp.StatusCode,
			Elapsed:   time.Since(start),
			FetchedAt: start,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
