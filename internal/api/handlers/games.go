package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"

	"github.com/onnwee/scorebook/backend/internal/apierr"
	"github.com/onnwee/scorebook/backend/internal/cache"
	"github.com/onnwee/scorebook/backend/internal/circuitbreaker"
	"github.com/onnwee/scorebook/backend/internal/fetch"
	"github.com/onnwee/scorebook/backend/internal/games"
	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/mlb"
	"github.com/onnwee/scorebook/backend/internal/normalize"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// GameReader is the slice of the games service the read handlers need.
type GameReader interface {
	GamesForDate(ctx context.Context, date string) ([]normalize.Game, error)
	GameDetails(ctx context.Context, id string) (*normalize.GameDetails, error)
}

// GamesHandler serves the read endpoints, with a serialized-response
// cache in front of the domain caches so hot payloads skip re-encoding.
type GamesHandler struct {
	svc       GameReader
	respCache cache.Cache
}

// NewGamesHandler creates the handler. respCache may be nil to disable
// response caching.
func NewGamesHandler(svc GameReader, respCache cache.Cache) *GamesHandler {
	return &GamesHandler{svc: svc, respCache: respCache}
}

// GetGames returns the normalized game list for a date.
// GET /api/games?date=YYYY-MM-DD (defaults to today)
func (h *GamesHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = games.Today()
	}
	if !datePattern.MatchString(date) {
		apierr.WriteErrorWithContext(w, r, apierr.ScheduleInvalidDate("date must be YYYY-MM-DD"))
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ScheduleInvalidDate("date must be a valid calendar date"))
		return
	}

	key := "games:" + date
	if h.serveCached(w, key, "games") {
		return
	}

	list, err := h.svc.GamesForDate(r.Context(), date)
	if err != nil {
		h.writeUpstreamError(w, r, err, "schedule fetch failed")
		return
	}
	h.writeJSON(w, key, "games", map[string]interface{}{
		"date":  date,
		"games": list,
	})
}

// GetGame returns the full normalized document for one game.
// GET /api/games/{id}
func (h *GamesHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	key := "game:" + id
	if h.serveCached(w, key, "game") {
		return
	}

	details, err := h.svc.GameDetails(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, games.ErrGameNotFound):
			apierr.WriteErrorWithContext(w, r, apierr.GameNotFound(id))
		case errors.Is(err, mlb.ErrInvalidGameID):
			apierr.WriteErrorWithContext(w, r, apierr.GameInvalidID(err.Error()))
		default:
			h.writeUpstreamError(w, r, err, "game fetch failed")
		}
		return
	}
	h.writeJSON(w, key, "game", details)
}

// serveCached writes a cached serialized response if one exists.
func (h *GamesHandler) serveCached(w http.ResponseWriter, key, endpoint string) bool {
	if h.respCache == nil {
		return false
	}
	body, ok := h.respCache.Get(key)
	if !ok {
		metrics.APICacheMisses.WithLabelValues(endpoint).Inc()
		return false
	}
	metrics.APICacheHits.WithLabelValues(endpoint).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return true
}

func (h *GamesHandler) writeJSON(w http.ResponseWriter, key, endpoint string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("response encoding failed", "endpoint", endpoint, "error", err)
		apierr.WriteError(w, apierr.SystemInternal("response encoding failed"))
		return
	}
	if h.respCache != nil {
		h.respCache.Set(key, body, 0)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *GamesHandler) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.ErrorContext(r.Context(), msg, "error", err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		apierr.WriteErrorWithContext(w, r, apierr.UpstreamTimeout())
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		apierr.WriteErrorWithContext(w, r, apierr.SystemUnavailable("upstream circuit open"))
	case fetch.IsNotFound(err):
		apierr.WriteErrorWithContext(w, r, apierr.UpstreamUnavailable("upstream returned not found"))
	default:
		apierr.WriteErrorWithContext(w, r, apierr.UpstreamUnavailable(msg))
	}
}
