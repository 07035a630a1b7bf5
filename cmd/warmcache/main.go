// Command warmcache runs one prefetch pass for a date and exits. Useful
// before traffic spikes (opening day, playoff starts) and from cron.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/scorebook/backend/internal/config"
	"github.com/onnwee/scorebook/backend/internal/fetch"
	"github.com/onnwee/scorebook/backend/internal/games"
	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/mlb"
	"github.com/onnwee/scorebook/backend/internal/prefetch"
	"github.com/onnwee/scorebook/backend/internal/registry"
)

func main() {
	date := flag.String("date", games.Today(), "date to warm, YYYY-MM-DD")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	reg := registry.New(cfg.RegistryMemoryThreshold)
	fetcher := fetch.NewClient(cfg)
	provider := mlb.NewClient(cfg, fetcher)
	svc := games.NewService(cfg, provider, reg)
	defer svc.Close()

	pf := prefetch.New(prefetch.Config{
		BatchSize:   cfg.PrefetchBatchSize,
		Concurrency: cfg.PrefetchConcurrency,
		Pacing:      cfg.PrefetchPacing,
		MaxAttempts: cfg.PrefetchMaxAttempts,
		RetryBase:   cfg.PrefetchRetryBase,
		Schedule:    cfg.PrefetchSchedule,
	}, svc.Prefetch, nil)
	defer pf.Stop()

	if err := svc.WarmDate(ctx, *date, pf.Schedule); err != nil {
		logger.Error("could not load schedule", "date", *date, "error", err)
		os.Exit(1)
	}

	pending := pf.Pending()
	if pending == 0 {
		logger.Info("nothing to warm", "date", *date)
		return
	}

	logger.Info("warming cache", "date", *date, "games", pending)
	pf.Run(ctx)
	logger.Info("warm pass finished", "date", *date, "remaining", pf.Pending())
}
