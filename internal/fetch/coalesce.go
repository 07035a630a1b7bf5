package fetch

import (
	"golang.org/x/sync/singleflight"

	"github.com/onnwee/scorebook/backend/internal/metrics"
)

// Coalescer deduplicates concurrent fetches for the same key so at most
// one upstream call is outstanding per key. Callers that join an in-flight
// fetch observe the same resolved value or the same error. The in-flight
// record is cleared on completion, so a failed fetch makes the next call
// retry from scratch; caching of successful results is the caller's job
// (done inside fn, against the domain's TTL cache).
type Coalescer[V any] struct {
	group singleflight.Group
}

// NewCoalescer creates an empty coalescer.
func NewCoalescer[V any]() *Coalescer[V] {
	return &Coalescer[V]{}
}

// Do invokes fn at most once per key among concurrent callers and fans the
// result out to all of them.
func (co *Coalescer[V]) Do(key string, fn func() (V, error)) (V, error) {
	v, err, shared := co.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if shared {
		metrics.CoalescedFetches.Inc()
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
