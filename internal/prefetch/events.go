package prefetch

import (
	"sync"
	"time"
)

// EventType labels a prefetch lifecycle event.
type EventType string

const (
	EventScheduled EventType = "scheduled"
	EventCompleted EventType = "completed"
	EventRetrying  EventType = "retrying"
	EventFailed    EventType = "failed"
)

// Event is one prefetch lifecycle notification.
type Event struct {
	Type    EventType `json:"type"`
	Key     string    `json:"key"`
	Attempt int       `json:"attempt,omitempty"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

const listenerBuffer = 32

// Bus fans prefetch events out to subscribers. Each subscriber gets a
// bounded channel; events are dropped for a subscriber that cannot keep
// up, never queued without bound.
type Bus struct {
	mu        sync.Mutex
	listeners map[int]chan Event
	next      int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]chan Event)}
}

// Subscribe returns an event channel and an unsubscribe function. The
// channel is closed on unsubscribe.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, listenerBuffer)
	b.listeners[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if l, ok := b.listeners[id]; ok {
			delete(b.listeners, id)
			close(l)
		}
	}
}

// Publish delivers an event to every subscriber, dropping it for any
// whose buffer is full.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
