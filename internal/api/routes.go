// Package api wires the HTTP surface: read endpoints, admin endpoints,
// the prefetch event stream, and operational probes.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/scorebook/backend/internal/api/handlers"
	"github.com/onnwee/scorebook/backend/internal/middleware"
	"github.com/onnwee/scorebook/backend/internal/prefetch"
)

// Deps carries the constructed handlers and middleware the router mounts.
type Deps struct {
	Games         *handlers.GamesHandler
	CacheAdmin    *handlers.CacheAdminHandler
	RegistryAdmin *handlers.RegistryAdminHandler
	Prefetch      *handlers.PrefetchHandler
	Status        *handlers.StatusHandler
	Bus           *prefetch.Bus

	Limiter *middleware.RateLimiter // nil disables rate limiting
	CORS    *middleware.CORSConfig
}

// NewRouter builds the full router with the middleware chain applied.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RecoverWithSentry)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.LimitRequestBody)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(d.CORS))
	if d.Limiter != nil {
		r.Use(d.Limiter.Limit)
	}

	// Probes and metrics, uncompressed
	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	if d.Status != nil {
		r.HandleFunc("/status", d.Status.GetStatus).Methods("GET")
	}
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Read API: compressed, with ETag revalidation
	games := r.PathPrefix("/api/games").Subrouter()
	games.Use(middleware.Compression)
	games.Use(middleware.ETag)
	games.HandleFunc("", d.Games.GetGames).Methods("GET")
	games.HandleFunc("/{id}", d.Games.GetGame).Methods("GET")

	// Admin API
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.HandleFunc("/cache/invalidate", d.CacheAdmin.InvalidateCache).Methods("POST")
	admin.HandleFunc("/cache/stats", d.CacheAdmin.GetCacheStats).Methods("GET")
	admin.HandleFunc("/registry", d.RegistryAdmin.GetResources).Methods("GET")
	admin.HandleFunc("/registry/cleanup", d.RegistryAdmin.Cleanup).Methods("POST")
	if d.Prefetch != nil {
		admin.HandleFunc("/prefetch", d.Prefetch.Trigger).Methods("POST")
		admin.HandleFunc("/prefetch", d.Prefetch.Status).Methods("GET")
	}

	// Prefetch event stream
	if d.Bus != nil {
		r.Handle("/ws/prefetch", handlers.PrefetchEvents(d.Bus)).Methods("GET")
	}

	return r
}

// WithServerHeader stamps responses so deployments are identifiable.
func WithServerHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "scorebook")
		next.ServeHTTP(w, r)
	})
}
