package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/onnwee/scorebook/backend/internal/apierr"
	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/prefetch"
)

var prefetchDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Warmer schedules prefetch work for every uncached game on a date.
type Warmer interface {
	WarmDate(ctx context.Context, date string, scheduleFn func(keys []string)) error
}

// PrefetchHandler exposes the background prefetcher.
type PrefetchHandler struct {
	warmer Warmer
	pf     *prefetch.Prefetcher
}

// NewPrefetchHandler creates a prefetch admin handler.
func NewPrefetchHandler(warmer Warmer, pf *prefetch.Prefetcher) *PrefetchHandler {
	return &PrefetchHandler{warmer: warmer, pf: pf}
}

type prefetchRequest struct {
	Date string   `json:"date,omitempty"`
	Keys []string `json:"keys,omitempty"`
}

// Trigger schedules prefetch work: either every uncached game on a date,
// or an explicit key list. The drain happens in the background; the
// response only confirms scheduling.
// POST /api/admin/prefetch
func (h *PrefetchHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req prefetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("body", "invalid JSON"))
		return
	}
	if req.Date == "" && len(req.Keys) == 0 {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("date or keys"))
		return
	}

	if len(req.Keys) > 0 {
		h.pf.Schedule(req.Keys)
	}
	if req.Date != "" {
		if !prefetchDatePattern.MatchString(req.Date) {
			apierr.WriteErrorWithContext(w, r, apierr.ScheduleInvalidDate("date must be YYYY-MM-DD"))
			return
		}
		if err := h.warmer.WarmDate(r.Context(), req.Date, h.pf.Schedule); err != nil {
			logger.ErrorContext(r.Context(), "prefetch warm failed", "date", req.Date, "error", err)
			apierr.WriteErrorWithContext(w, r, apierr.UpstreamUnavailable("could not load schedule for prefetch"))
			return
		}
	}

	go h.pf.Run(context.Background())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "scheduled",
		"pending": h.pf.Pending(),
	})
}

// Status reports the pending-set depth.
// GET /api/admin/prefetch
func (h *PrefetchHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"pending":   h.pf.Pending(),
		"listeners": h.pf.Bus().Len(),
	})
}
