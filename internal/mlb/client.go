package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/scorebook/backend/internal/config"
	"github.com/onnwee/scorebook/backend/internal/fetch"
	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/tracing"
)

// Client fetches schedule and live-feed documents from the stats provider.
type Client struct {
	base    string
	fetcher *fetch.Client
}

// NewClient builds a provider client on top of the shared fetch client.
func NewClient(cfg *config.Config, fetcher *fetch.Client) *Client {
	return &Client{base: cfg.MLBAPIBaseURL, fetcher: fetcher}
}

// ScheduleForDate fetches the schedule for a calendar date given as
// YYYY-MM-DD. The provider wants MM/DD/YYYY in the query string.
func (c *Client) ScheduleForDate(ctx context.Context, date string) (*ScheduleResponse, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	ctx, span := tracing.StartSpan(ctx, "mlb.schedule")
	defer span.End()
	span.SetAttributes(attribute.String("date", date))

	q := url.Values{}
	q.Set("sportId", "1")
	q.Set("date", t.Format("01/02/2006"))
	q.Set("hydrate", "linescore,team")
	u := fmt.Sprintf("%s/api/v1/schedule?%s", c.base, q.Encode())

	start := time.Now()
	res, err := c.fetcher.Get(ctx, u)
	metrics.UpstreamRequestDuration.WithLabelValues("schedule").Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var sched ScheduleResponse
	if err := json.Unmarshal(res.Body, &sched); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &sched, nil
}

// GameFeed fetches the full live feed for a game by its provider key.
func (c *Client) GameFeed(ctx context.Context, gamePk int64) (*LiveFeed, error) {
	ctx, span := tracing.StartSpan(ctx, "mlb.feed")
	defer span.End()
	span.SetAttributes(attribute.Int64("game_pk", gamePk))

	u := fmt.Sprintf("%s/api/v1.1/game/%d/feed/live", c.base, gamePk)

	start := time.Now()
	res, err := c.fetcher.Get(ctx, u)
	metrics.UpstreamRequestDuration.WithLabelValues("feed").Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var feed LiveFeed
	if err := json.Unmarshal(res.Body, &feed); err != nil {
		return nil, fmt.Errorf("decode live feed: %w", err)
	}
	return &feed, nil
}
