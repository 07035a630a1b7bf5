package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/onnwee/scorebook/backend/internal/apierr"
	"github.com/onnwee/scorebook/backend/internal/cache"
	"github.com/onnwee/scorebook/backend/internal/games"
)

// CacheAdmin is the slice of the games service the cache endpoints need.
type CacheAdmin interface {
	ClearCache(scope games.CacheScope) bool
	CacheStats() map[string]cache.Stats
}

// CacheAdminHandler handles cache administration endpoints.
type CacheAdminHandler struct {
	svc       CacheAdmin
	respCache cache.Cache
}

// NewCacheAdminHandler creates a new cache admin handler. respCache may
// be nil when no response cache is configured.
func NewCacheAdminHandler(svc CacheAdmin, respCache cache.Cache) *CacheAdminHandler {
	return &CacheAdminHandler{svc: svc, respCache: respCache}
}

// InvalidateCache clears a cache domain, or everything.
// POST /api/admin/cache/invalidate?scope=all|schedule|boxscore|live
func (h *CacheAdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "all"
	}

	if !h.svc.ClearCache(games.CacheScope(scope)) {
		apierr.WriteErrorWithContext(w, r, apierr.CacheInvalidScope(scope))
		return
	}
	// serialized responses are keyed by endpoint, not by domain, so any
	// invalidation drops them all; they rebuild on the next read
	if h.respCache != nil {
		h.respCache.Clear()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"scope":  scope,
	})
}

// GetCacheStats returns statistics for every cache domain plus the
// serialized-response cache.
// GET /api/admin/cache/stats
func (h *CacheAdminHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]cache.Stats)
	for domain, s := range h.svc.CacheStats() {
		stats[domain] = s
	}
	if h.respCache != nil {
		stats["responses"] = h.respCache.Stats()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(stats)
}
