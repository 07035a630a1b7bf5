// Package games is the read path of the pipeline: it resolves dates and
// game ids into normalized records, going to the stats provider only on a
// cache miss and never more than once concurrently per key.
package games

import (
	"context"
	"fmt"
	"time"

	"github.com/onnwee/scorebook/backend/internal/cache"
	"github.com/onnwee/scorebook/backend/internal/config"
	"github.com/onnwee/scorebook/backend/internal/fetch"
	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/mlb"
	"github.com/onnwee/scorebook/backend/internal/normalize"
	"github.com/onnwee/scorebook/backend/internal/registry"
)

// Rough per-entry size estimates for registry accounting. Normalized
// documents vary a lot; these only need to be the right order of
// magnitude for memory-pressure eviction to behave sensibly.
const (
	scheduleEntryEstimate = 16 * 1024
	detailsEntryEstimate  = 256 * 1024
)

// ErrGameNotFound is returned when a game id resolves to no scheduled game.
var ErrGameNotFound = fmt.Errorf("game not found")

// Service owns the per-domain caches and the upstream client.
type Service struct {
	cfg      *config.Config
	provider *mlb.Client
	reg      *registry.Registry

	schedules *cache.TTLCache[[]normalize.Game]
	boxscores *cache.TTLCache[*normalize.GameDetails]
	live      *cache.TTLCache[*normalize.GameDetails]

	schedCo *fetch.Coalescer[[]normalize.Game]
	gameCo  *fetch.Coalescer[*normalize.GameDetails]
}

// NewService wires the caches, registers them with the resource registry,
// and starts their sweepers.
func NewService(cfg *config.Config, provider *mlb.Client, reg *registry.Registry) *Service {
	s := &Service{
		cfg:       cfg,
		provider:  provider,
		reg:       reg,
		schedules: cache.NewTTL[[]normalize.Game]("schedule", cfg.ScheduleTTL, cfg.CacheMaxEntries),
		boxscores: cache.NewTTL[*normalize.GameDetails]("boxscore", cfg.BoxscoreTTL, cfg.CacheMaxEntries),
		live:      cache.NewTTL[*normalize.GameDetails]("live", cfg.LiveFeedTTL, cfg.CacheMaxEntries),
		schedCo:   fetch.NewCoalescer[[]normalize.Game](),
		gameCo:    fetch.NewCoalescer[*normalize.GameDetails](),
	}
	s.schedules.StartSweeper(cfg.CacheSweepInterval)
	s.boxscores.StartSweeper(cfg.CacheSweepInterval)
	s.live.StartSweeper(cfg.CacheSweepInterval)

	if reg != nil {
		reg.Register("cache:schedule", registry.TypeCache, func() { s.schedules.Clear() }, 0)
		reg.Register("cache:boxscore", registry.TypeCache, func() { s.boxscores.Clear() }, 0)
		reg.Register("cache:live", registry.TypeCache, func() { s.live.Clear() }, 0)
	}
	return s
}

// GamesForDate returns the normalized game list for a YYYY-MM-DD date.
// Concurrent callers for the same date share one upstream fetch; a
// successful result is cached, a failure is not.
func (s *Service) GamesForDate(ctx context.Context, date string) ([]normalize.Game, error) {
	if games, ok := s.schedules.Get(date); ok {
		s.touch("cache:schedule")
		return games, nil
	}

	return s.schedCo.Do("schedule:"+date, func() ([]normalize.Game, error) {
		// re-check inside the flight; a racing caller may have filled it
		if games, ok := s.schedules.Get(date); ok {
			return games, nil
		}
		resp, err := s.provider.ScheduleForDate(ctx, date)
		if err != nil {
			return nil, err
		}
		games := normalize.Schedule(resp, date)
		s.schedules.Set(date, games)
		s.syncRegistrySizes()
		return games, nil
	})
}

// GameDetails resolves a composite game id into the full normalized
// document. Completed games land in the boxscore cache with its longer
// TTL; everything else, including postponed and suspended games that may
// still be rescheduled or resumed, lands in the short-lived live cache.
func (s *Service) GameDetails(ctx context.Context, id string) (*normalize.GameDetails, error) {
	gid, err := mlb.ParseGameID(id)
	if err != nil {
		return nil, err
	}

	if d, ok := s.boxscores.Get(id); ok {
		s.touch("cache:boxscore")
		return d, nil
	}
	if d, ok := s.live.Get(id); ok {
		s.touch("cache:live")
		return d, nil
	}

	return s.gameCo.Do("game:"+id, func() (*normalize.GameDetails, error) {
		if d, ok := s.boxscores.Get(id); ok {
			return d, nil
		}
		if d, ok := s.live.Get(id); ok {
			return d, nil
		}

		gamePk, err := s.resolveGamePk(ctx, gid)
		if err != nil {
			return nil, err
		}
		feed, err := s.provider.GameFeed(ctx, gamePk)
		if err != nil {
			if fetch.IsNotFound(err) {
				return nil, ErrGameNotFound
			}
			return nil, err
		}
		details, err := normalize.Details(feed, id)
		if err != nil {
			return nil, err
		}

		if details.Game.Status == normalize.StatusFinal {
			s.boxscores.Set(id, details)
		} else {
			s.live.Set(id, details)
		}
		s.syncRegistrySizes()
		return details, nil
	})
}

// Prefetch warms the cache for one game id through the normal read path.
func (s *Service) Prefetch(ctx context.Context, id string) error {
	_, err := s.GameDetails(ctx, id)
	return err
}

// resolveGamePk finds the provider's numeric game key via the schedule
// for the id's date, matching on team abbreviations and game number.
func (s *Service) resolveGamePk(ctx context.Context, gid mlb.GameID) (int64, error) {
	games, err := s.GamesForDate(ctx, gid.Date)
	if err != nil {
		return 0, err
	}
	for _, g := range games {
		if g.Away.Abbreviation == gid.Away && g.Home.Abbreviation == gid.Home && g.GameNumber == gid.GameNumber {
			return g.GamePk, nil
		}
	}
	return 0, ErrGameNotFound
}

// CacheScope names a clearable cache domain.
type CacheScope string

const (
	ScopeAll      CacheScope = "all"
	ScopeSchedule CacheScope = "schedule"
	ScopeBoxscore CacheScope = "boxscore"
	ScopeLive     CacheScope = "live"
)

// ClearCache empties the named domain. Returns false for an unknown scope.
func (s *Service) ClearCache(scope CacheScope) bool {
	switch scope {
	case ScopeAll:
		s.schedules.Clear()
		s.boxscores.Clear()
		s.live.Clear()
	case ScopeSchedule:
		s.schedules.Clear()
	case ScopeBoxscore:
		s.boxscores.Clear()
	case ScopeLive:
		s.live.Clear()
	default:
		return false
	}
	logger.Info("cache cleared", "scope", string(scope))
	s.syncRegistrySizes()
	return true
}

// CacheStats returns per-domain cache statistics.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"schedule": s.schedules.Stats(),
		"boxscore": s.boxscores.Stats(),
		"live":     s.live.Stats(),
	}
}

// Close stops the cache sweepers.
func (s *Service) Close() {
	s.schedules.Stop()
	s.boxscores.Stop()
	s.live.Stop()
}

func (s *Service) touch(id string) {
	if s.reg != nil {
		s.reg.Access(id)
	}
}

// syncRegistrySizes pushes fresh size estimates to the registry so
// memory-pressure eviction sees cache growth.
func (s *Service) syncRegistrySizes() {
	if s.reg == nil {
		return
	}
	s.reg.UpdateSize("cache:schedule", int64(s.schedules.Len())*scheduleEntryEstimate)
	s.reg.UpdateSize("cache:boxscore", int64(s.boxscores.Len())*detailsEntryEstimate)
	s.reg.UpdateSize("cache:live", int64(s.live.Len())*detailsEntryEstimate)
}

// WarmDate fetches the schedule for a date and schedules every
// not-yet-cached game for prefetch via the supplied scheduler function.
func (s *Service) WarmDate(ctx context.Context, date string, scheduleFn func(keys []string)) error {
	games, err := s.GamesForDate(ctx, date)
	if err != nil {
		return err
	}
	var keys []string
	for _, g := range games {
		if s.boxscores.Has(g.ID) || s.live.Has(g.ID) {
			continue
		}
		keys = append(keys, g.ID)
	}
	if len(keys) > 0 {
		scheduleFn(keys)
	}
	return nil
}

// Today returns the current date in the provider's convention.
func Today() string {
	return time.Now().Format("2006-01-02")
}
