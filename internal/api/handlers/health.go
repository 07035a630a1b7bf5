package handlers

import (
	"encoding/json"
	"net/http"
)

// Health answers liveness probes. It does not touch the caches or the
// upstream provider, so it stays green even when the provider is down.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
