// Package registry tracks heterogeneous live resources (caches, timers,
// listeners, in-memory buffers) with size estimates and last-access
// timestamps, and evicts least-recently-used resources when a memory
// budget is exceeded or resources age out.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/metrics"
)

// ResourceType classifies a registered resource.
type ResourceType string

const (
	TypeCache    ResourceType = "cache"
	TypeTimer    ResourceType = "timer"
	TypeListener ResourceType = "listener"
	TypeImage    ResourceType = "image"
	TypeData     ResourceType = "data"
)

// resource is the internal record for one registered resource. Each has
// exactly one cleanup action, invoked at most once.
type resource struct {
	id           string
	typ          ResourceType
	createdAt    time.Time
	lastAccessed time.Time
	size         int64
	cleanup      func()
	cleaned      bool
}

// Info is a read-only snapshot of a registered resource, for the admin API.
type Info struct {
	ID           string       `json:"id"`
	Type         ResourceType `json:"type"`
	CreatedAt    time.Time    `json:"created_at"`
	LastAccessed time.Time    `json:"last_accessed"`
	SizeBytes    int64        `json:"size_bytes"`
}

// Registry owns the resource records and the memory budget.
type Registry struct {
	mu        sync.Mutex
	resources map[string]*resource
	threshold int64

	maintStop chan struct{}
	stopOnce  sync.Once
}

// New creates a registry with the given memory threshold in bytes.
func New(threshold int64) *Registry {
	return &Registry{
		resources: make(map[string]*resource),
		threshold: threshold,
		maintStop: make(chan struct{}),
	}
}

// Register records a resource. A prior resource with the same id is cleaned
// up and replaced. size is the estimated memory footprint in bytes.
func (r *Registry) Register(id string, typ ResourceType, cleanup func(), size int64) {
	r.mu.Lock()
	prior := r.resources[id]
	now := time.Now()
	r.resources[id] = &resource{
		id:           id,
		typ:          typ,
		createdAt:    now,
		lastAccessed: now,
		size:         size,
		cleanup:      cleanup,
	}
	r.updateGaugesLocked()
	r.mu.Unlock()

	if prior != nil {
		r.runCleanup(prior)
		metrics.RegistryEvictions.WithLabelValues("replaced").Inc()
	}
}

// Unregister invokes the cleanup action and removes the record.
// Returns whether a resource existed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	res, ok := r.resources[id]
	if ok {
		delete(r.resources, id)
		r.updateGaugesLocked()
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	r.runCleanup(res)
	metrics.RegistryEvictions.WithLabelValues("explicit").Inc()
	return true
}

// Access refreshes the last-accessed timestamp without altering any value.
func (r *Registry) Access(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.resources[id]; ok {
		res.lastAccessed = time.Now()
	}
}

// UpdateSize replaces the size estimate for a resource, if registered.
func (r *Registry) UpdateSize(id string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.resources[id]; ok {
		res.size = size
		r.updateGaugesLocked()
	}
}

// CleanupOld evicts every resource not accessed within maxAge.
// Returns the number of resources evicted.
func (r *Registry) CleanupOld(maxAge time.Duration) int {
	now := time.Now()

	r.mu.Lock()
	var stale []*resource
	for id, res := range r.resources {
		if now.Sub(res.lastAccessed) > maxAge {
			stale = append(stale, res)
			delete(r.resources, id)
		}
	}
	r.updateGaugesLocked()
	r.mu.Unlock()

	for _, res := range stale {
		r.runCleanup(res)
		metrics.RegistryEvictions.WithLabelValues("age").Inc()
	}
	return len(stale)
}

// CleanupByMemory checks total estimated size against the threshold and, if
// exceeded, evicts resources oldest-last-accessed-first until total size
// falls to 80% of the threshold. Returns the number of resources evicted.
func (r *Registry) CleanupByMemory() int {
	r.mu.Lock()
	var total int64
	for _, res := range r.resources {
		total += res.size
	}
	if total <= r.threshold {
		r.mu.Unlock()
		return 0
	}

	ordered := make([]*resource, 0, len(r.resources))
	for _, res := range r.resources {
		ordered = append(ordered, res)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].lastAccessed.Before(ordered[j].lastAccessed)
	})

	target := r.threshold * 8 / 10
	var evicted []*resource
	for _, res := range ordered {
		if total <= target {
			break
		}
		delete(r.resources, res.id)
		total -= res.size
		evicted = append(evicted, res)
	}
	r.updateGaugesLocked()
	r.mu.Unlock()

	for _, res := range evicted {
		r.runCleanup(res)
		metrics.RegistryEvictions.WithLabelValues("memory").Inc()
	}
	return len(evicted)
}

// TotalSize returns the sum of estimated resource sizes in bytes.
func (r *Registry) TotalSize() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, res := range r.resources {
		total += res.size
	}
	return total
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resources)
}

// Snapshot returns read-only records for every registered resource,
// oldest-last-accessed first.
func (r *Registry) Snapshot() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Info, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, Info{
			ID:           res.id,
			Type:         res.typ,
			CreatedAt:    res.createdAt,
			LastAccessed: res.lastAccessed,
			SizeBytes:    res.size,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastAccessed.Before(out[j].LastAccessed)
	})
	return out
}

// StartMaintenance launches the periodic maintenance loop: age-based
// cleanup followed by memory-based cleanup, unconditionally, every interval.
// Stop terminates it and is safe to call more than once.
func (r *Registry) StartMaintenance(maxAge, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.CleanupOld(maxAge)
				r.CleanupByMemory()
			case <-r.maintStop:
				return
			}
		}
	}()
}

// Stop terminates the maintenance loop.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.maintStop) })
}

// runCleanup invokes a cleanup action at most once. Eviction must never be
// blocked by a misbehaving resource, so panics are recovered and logged.
func (r *Registry) runCleanup(res *resource) {
	if res.cleaned || res.cleanup == nil {
		res.cleaned = true
		return
	}
	res.cleaned = true
	defer func() {
		if err := recover(); err != nil {
			logger.Warn("resource cleanup panicked", "id", res.id, "type", string(res.typ), "error", err)
		}
	}()
	res.cleanup()
}

// updateGaugesLocked refreshes registry gauges. Caller holds mu.
func (r *Registry) updateGaugesLocked() {
	metrics.RegistryResources.Set(float64(len(r.resources)))
	var total int64
	for _, res := range r.resources {
		total += res.size
	}
	metrics.RegistrySizeBytes.Set(float64(total))
}
