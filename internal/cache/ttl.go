package cache

import (
	"sync"
	"time"

	"github.com/onnwee/scorebook/backend/internal/metrics"
)

// ttlEntry wraps a value with its creation time and time-to-live.
type ttlEntry[V any] struct {
	value     V
	createdAt time.Time
	ttl       time.Duration
}

func (e ttlEntry[V]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// TTLCache is a typed key/value store with per-entry time-to-live and a
// maximum entry count. When full, Set evicts the oldest-inserted entry
// before inserting. Expired entries are treated as absent on Get and are
// physically removed by Get or by the periodic sweeper, whichever comes
// first. Each logical data domain owns its own instance with its own
// default TTL.
type TTLCache[V any] struct {
	mu         sync.Mutex
	entries    map[string]ttlEntry[V]
	order      []string // insertion order, oldest first
	defaultTTL time.Duration
	maxEntries int
	domain     string

	hits      uint64
	misses    uint64
	added     uint64
	evictions uint64

	sweepStop chan struct{}
	stopOnce  sync.Once
}

// NewTTL creates a cache for the given domain. The domain labels metrics
// only; it does not namespace keys.
func NewTTL[V any](domain string, defaultTTL time.Duration, maxEntries int) *TTLCache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &TTLCache[V]{
		entries:    make(map[string]ttlEntry[V]),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		domain:     domain,
		sweepStop:  make(chan struct{}),
	}
}

// Set stores a value with the cache's default TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.SetTTL(key, value, 0)
}

// SetTTL stores a value with an explicit TTL. A ttl of 0 means the default.
func (c *TTLCache[V]) SetTTL(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries {
			c.evictOldestLocked()
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = ttlEntry[V]{value: value, createdAt: time.Now(), ttl: ttl}
	c.added++
	metrics.CacheItems.WithLabelValues(c.domain).Set(float64(len(c.entries)))
}

// Get returns the value for key if present and unexpired. An expired entry
// is removed and reported as a miss.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		metrics.CacheMisses.WithLabelValues(c.domain).Inc()
		return zero, false
	}
	if e.expired(time.Now()) {
		c.removeLocked(key)
		c.misses++
		metrics.CacheMisses.WithLabelValues(c.domain).Inc()
		return zero, false
	}

	c.hits++
	metrics.CacheHits.WithLabelValues(c.domain).Inc()
	return e.value, true
}

// Has reports whether key is present and unexpired.
func (c *TTLCache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes a key. It is a no-op if the key is absent.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes all entries.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]ttlEntry[V])
	c.order = nil
	metrics.CacheItems.WithLabelValues(c.domain).Set(0)
}

// Len returns the number of physically stored entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache statistics.
func (c *TTLCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		KeysAdded: c.added,
		Evictions: c.evictions,
		Items:     int64(len(c.entries)),
	}
}

// StartSweeper launches a goroutine that periodically removes expired
// entries so memory stays bounded even for keys nobody re-requests.
// Stop terminates it; Stop is idempotent.
func (c *TTLCache[V]) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-c.sweepStop:
				return
			}
		}
	}()
}

// Stop terminates the sweeper goroutine, if any.
func (c *TTLCache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.sweepStop) })
}

// Sweep removes every expired entry.
func (c *TTLCache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var expired []string
	for key, e := range c.entries {
		if e.expired(now) {
			expired = append(expired, key)
		}
	}
	for _, key := range expired {
		c.removeLocked(key)
	}
	return len(expired)
}

// evictOldestLocked removes the oldest-inserted entry. Caller holds mu.
func (c *TTLCache[V]) evictOldestLocked() {
	for len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			c.evictions++
			metrics.CacheEvictions.WithLabelValues(c.domain).Inc()
			return
		}
	}
}

// removeLocked deletes a key from the map and the insertion order. Caller holds mu.
func (c *TTLCache[V]) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	metrics.CacheItems.WithLabelValues(c.domain).Set(float64(len(c.entries)))
}
