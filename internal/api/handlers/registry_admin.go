package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/onnwee/scorebook/backend/internal/registry"
)

// RegistryAdminHandler exposes the resource registry for inspection and
// manual cleanup.
type RegistryAdminHandler struct {
	reg *registry.Registry
}

// NewRegistryAdminHandler creates a registry admin handler.
func NewRegistryAdminHandler(reg *registry.Registry) *RegistryAdminHandler {
	return &RegistryAdminHandler{reg: reg}
}

// GetResources lists registered resources, oldest-last-accessed first.
// GET /api/admin/registry
func (h *RegistryAdminHandler) GetResources(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"resources":  h.reg.Snapshot(),
		"totalBytes": h.reg.TotalSize(),
	})
}

// Cleanup runs a memory-pressure eviction pass immediately.
// POST /api/admin/registry/cleanup
func (h *RegistryAdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	evicted := h.reg.CleanupByMemory()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"evicted": evicted,
	})
}
