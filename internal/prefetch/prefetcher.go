// Package prefetch warms the cache in the background so foreground
// callers find their keys already resolved. It is purely additive: it
// never blocks a foreground request and never fails the process.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/scheduler"
)

// FetchFunc resolves one key through the normal fetch-and-normalize path.
type FetchFunc func(ctx context.Context, key string) error

// Config controls batching, pacing, and per-key retry.
type Config struct {
	BatchSize   int
	Concurrency int
	Pacing      time.Duration
	MaxAttempts int
	RetryBase   time.Duration
	Schedule    string // @every expression for the background loop

	// Warm, when set, runs at every schedule tick before the drain so
	// each tick can re-discover keys worth fetching. Kept out of the
	// wake path: keys scheduled explicitly are drained as-is.
	Warm func(ctx context.Context)
}

// Prefetcher drains a pending key set in bounded batches. Each key
// carries its own attempt counter with exponential backoff; a key that
// exhausts its attempts is dropped with a failure event and does not
// block the rest.
type Prefetcher struct {
	cfg     Config
	fetchFn FetchFunc
	bus     *Bus

	mu       sync.Mutex
	pending  map[string]int // key -> attempts already made
	deferred map[string]*time.Timer

	wake chan struct{}
	stop chan struct{}
	once sync.Once
}

// New creates a prefetcher. bus may be nil when nobody listens.
func New(cfg Config, fetchFn FetchFunc, bus *Bus) *Prefetcher {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if bus == nil {
		bus = NewBus()
	}
	return &Prefetcher{
		cfg:      cfg,
		fetchFn:  fetchFn,
		bus:      bus,
		pending:  make(map[string]int),
		deferred: make(map[string]*time.Timer),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Bus exposes the event bus for subscribers.
func (p *Prefetcher) Bus() *Bus { return p.bus }

// Schedule adds keys to the pending set. Keys already pending keep their
// attempt counters.
func (p *Prefetcher) Schedule(keys []string) {
	p.mu.Lock()
	for _, k := range keys {
		if _, ok := p.pending[k]; !ok {
			p.pending[k] = 0
		}
	}
	depth := len(p.pending)
	p.mu.Unlock()

	metrics.PrefetchQueueDepth.Set(float64(depth))
	for _, k := range keys {
		p.bus.Publish(Event{Type: EventScheduled, Key: k})
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Pending returns the current pending-set size.
func (p *Prefetcher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Run drains the pending set: batches of BatchSize, each batch fetched
// with up to Concurrency workers, a pacing delay between batches. Returns
// when the set is empty or ctx is done. Keys deferred for retry are
// picked up by a later Run.
func (p *Prefetcher) Run(ctx context.Context) {
	for {
		batch := p.takeBatch()
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		sem := make(chan struct{}, p.cfg.Concurrency)
		var wg sync.WaitGroup
		for _, it := range batch {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(k string, attempts int) {
				defer wg.Done()
				defer func() { <-sem }()
				p.fetchOne(ctx, k, attempts)
			}(it.key, it.attempts)
		}
		wg.Wait()
		metrics.PrefetchBatchDuration.Observe(time.Since(start).Seconds())

		select {
		case <-time.After(p.cfg.Pacing):
		case <-ctx.Done():
			return
		}
	}
}

// Start launches the background loop: at every tick of the schedule
// expression it runs the Warm hook and drains, and it drains immediately
// when Schedule wakes it. Stop terminates it.
func (p *Prefetcher) Start(ctx context.Context) {
	go func() {
		for {
			next, err := scheduler.NextRun(p.cfg.Schedule, time.Now())
			if err != nil {
				logger.Error("invalid prefetch schedule, loop disabled", "schedule", p.cfg.Schedule, "error", err)
				return
			}
			select {
			case <-time.After(time.Until(next)):
				if p.cfg.Warm != nil {
					p.cfg.Warm(ctx)
				}
			case <-p.wake:
			case <-p.stop:
				return
			case <-ctx.Done():
				return
			}
			p.Run(ctx)
		}
	}()
}

// Stop terminates the background loop and cancels deferred retries.
// Safe to call more than once.
func (p *Prefetcher) Stop() {
	p.once.Do(func() {
		close(p.stop)
		p.mu.Lock()
		for k, t := range p.deferred {
			t.Stop()
			delete(p.deferred, k)
		}
		p.mu.Unlock()
	})
}

type batchItem struct {
	key      string
	attempts int
}

// takeBatch removes up to BatchSize keys from the pending set, carrying
// each key's attempt counter along.
func (p *Prefetcher) takeBatch() []batchItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	batch := make([]batchItem, 0, p.cfg.BatchSize)
	for k, attempts := range p.pending {
		batch = append(batch, batchItem{key: k, attempts: attempts})
		delete(p.pending, k)
		if len(batch) == p.cfg.BatchSize {
			break
		}
	}
	metrics.PrefetchQueueDepth.Set(float64(len(p.pending)))
	return batch
}

// fetchOne resolves one key, deferring a retry with exponential backoff
// on failure until attempts run out.
func (p *Prefetcher) fetchOne(ctx context.Context, key string, attempts int) {
	err := p.fetchFn(ctx, key)
	attempts++

	if err == nil {
		metrics.PrefetchJobsTotal.WithLabelValues("success").Inc()
		p.bus.Publish(Event{Type: EventCompleted, Key: key, Attempt: attempts})
		return
	}

	if attempts >= p.cfg.MaxAttempts {
		metrics.PrefetchJobsTotal.WithLabelValues("failed").Inc()
		logger.Warn("prefetch key exhausted retries", "key", key, "attempts", attempts, "error", err)
		p.bus.Publish(Event{Type: EventFailed, Key: key, Attempt: attempts, Error: err.Error()})
		return
	}

	metrics.PrefetchJobsTotal.WithLabelValues("retry").Inc()
	delay := p.cfg.RetryBase * (1 << (attempts - 1))
	p.bus.Publish(Event{Type: EventRetrying, Key: key, Attempt: attempts, Error: err.Error()})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.deferred[key] = time.AfterFunc(delay, func() {
		p.mu.Lock()
		delete(p.deferred, key)
		if _, ok := p.pending[key]; !ok {
			p.pending[key] = attempts
		}
		depth := len(p.pending)
		p.mu.Unlock()
		metrics.PrefetchQueueDepth.Set(float64(depth))
		select {
		case p.wake <- struct{}{}:
		default:
		}
	})
}
