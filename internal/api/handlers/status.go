package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/onnwee/scorebook/backend/internal/cache"
	"github.com/onnwee/scorebook/backend/internal/registry"
)

var startTime = time.Now()

// StatusHandler aggregates a process-level status snapshot.
type StatusHandler struct {
	svc CacheAdmin
	reg *registry.Registry
	pf  interface{ Pending() int }
}

// NewStatusHandler creates a status handler. pf may be nil when the
// prefetcher is disabled.
func NewStatusHandler(svc CacheAdmin, reg *registry.Registry, pf interface{ Pending() int }) *StatusHandler {
	return &StatusHandler{svc: svc, reg: reg, pf: pf}
}

// GetStatus returns uptime, per-domain cache stats, registry footprint,
// and the prefetch queue depth.
// GET /status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	caches := map[string]cache.Stats{}
	if h.svc != nil {
		caches = h.svc.CacheStats()
	}

	out := map[string]interface{}{
		"uptimeSeconds": int64(time.Since(startTime).Seconds()),
		"caches":        caches,
	}
	if h.reg != nil {
		out["registry"] = map[string]interface{}{
			"resources":  h.reg.Len(),
			"totalBytes": h.reg.TotalSize(),
		}
	}
	if h.pf != nil {
		out["prefetchPending"] = h.pf.Pending()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}
