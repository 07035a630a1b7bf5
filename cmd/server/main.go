package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/scorebook/backend/internal/api"
	"github.com/onnwee/scorebook/backend/internal/api/handlers"
	"github.com/onnwee/scorebook/backend/internal/cache"
	"github.com/onnwee/scorebook/backend/internal/config"
	"github.com/onnwee/scorebook/backend/internal/errorreporting"
	"github.com/onnwee/scorebook/backend/internal/fetch"
	"github.com/onnwee/scorebook/backend/internal/games"
	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/middleware"
	"github.com/onnwee/scorebook/backend/internal/mlb"
	"github.com/onnwee/scorebook/backend/internal/prefetch"
	"github.com/onnwee/scorebook/backend/internal/registry"
	"github.com/onnwee/scorebook/backend/internal/tracing"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	if envErr != nil {
		logger.Info("No .env file found, using system env")
	}

	if err := errorreporting.Init(cfg.SentryEnvironment); err != nil {
		logger.Warn("Sentry init failed", "error", err)
	}
	defer errorreporting.Flush(2 * time.Second)

	shutdownTracing, err := tracing.Init("scorebook-api")
	if err != nil {
		logger.Warn("tracing init failed", "error", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core pipeline
	reg := registry.New(cfg.RegistryMemoryThreshold)
	reg.StartMaintenance(cfg.RegistryMaxAge, cfg.RegistryInterval)
	defer reg.Stop()

	fetcher := fetch.NewClient(cfg)
	provider := mlb.NewClient(cfg, fetcher)
	svc := games.NewService(cfg, provider, reg)
	defer svc.Close()

	respCache, err := cache.NewLRU(cfg.RespCacheMaxSizeMB, cfg.RespCacheEntries, cfg.RespCacheTTL)
	if err != nil {
		logger.Error("response cache init failed", "error", err)
		os.Exit(1)
	}
	defer respCache.Close()
	reg.Register("cache:responses", registry.TypeCache, func() { respCache.Clear() }, 0)

	// Prefetcher
	bus := prefetch.NewBus()
	var pf *prefetch.Prefetcher
	warmToday := func(ctx context.Context) {
		if err := svc.WarmDate(ctx, games.Today(), pf.Schedule); err != nil {
			logger.Warn("cache warm failed", "error", err)
		}
	}
	pf = prefetch.New(prefetch.Config{
		BatchSize:   cfg.PrefetchBatchSize,
		Concurrency: cfg.PrefetchConcurrency,
		Pacing:      cfg.PrefetchPacing,
		MaxAttempts: cfg.PrefetchMaxAttempts,
		RetryBase:   cfg.PrefetchRetryBase,
		Schedule:    cfg.PrefetchSchedule,
		Warm:        warmToday,
	}, svc.Prefetch, bus)
	defer pf.Stop()

	if !cfg.DisablePrefetch {
		// warm once now, then the schedule loop re-warms on every tick
		pf.Start(ctx)
		go warmToday(ctx)
	}

	// HTTP surface
	var limiter *middleware.RateLimiter
	if cfg.EnableRateLimit {
		limiter = middleware.NewRateLimiter(cfg.RateLimitGlobal, cfg.RateLimitGlobalBurst, cfg.RateLimitPerIP, cfg.RateLimitPerIPBurst)
		defer limiter.Stop()
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := api.NewRouter(api.Deps{
		Games:         handlers.NewGamesHandler(svc, respCache),
		CacheAdmin:    handlers.NewCacheAdminHandler(svc, respCache),
		RegistryAdmin: handlers.NewRegistryAdminHandler(reg),
		Prefetch:      handlers.NewPrefetchHandler(svc, pf),
		Status:        handlers.NewStatusHandler(svc, reg, pf),
		Bus:           bus,
		Limiter:       limiter,
		CORS:          corsCfg,
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.WithServerHeader(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
