// Package events provides the process-wide event bus used to notify the
// admin API (and any other in-process subscriber) of catalog and session
// changes, grounded on the teacher's internal/events package (EventBus
// interface, Publish/Subscribe, a bounded channel with a recent-events
// ring buffer) but trimmed to the handful of event kinds this project
// actually emits.
package events

import (
	"fmt"
	"sync"
	"time"
)

// Type identifies the kind of event.
type Type string

const (
	// CatalogChanged fires whenever library.scan/add/verify changes the set
	// of entries in the catalog (spec.md §4.B).
	CatalogChanged Type = "catalog.changed"
	// TranscodeJobUpdated fires on every TranscodeJob lifecycle transition
	// (spec.md §3 TranscodeJob).
	TranscodeJobUpdated Type = "transcode.job.updated"
	// SessionConnected/SessionDisconnected fire from the session registry
	// (spec.md §4.F).
	SessionConnected    Type = "session.connected"
	SessionDisconnected Type = "session.disconnected"
	// StreamStateChanged fires on every StreamHandle state transition
	// (spec.md §3 StreamHandle).
	StreamStateChanged Type = "stream.state.changed"
)

// Event is the payload delivered to subscribers.
type Event struct {
	ID        string
	Type      Type
	Data      map[string]interface{}
	Timestamp time.Time
}

// Handler is called for each event matching a subscription.
type Handler func(Event)

// Bus is the minimal publish/subscribe surface this project needs; unlike
// the teacher's EventBus it has no persistence layer, because nothing in
// this domain needs to read events back after the process restarts.
type Bus interface {
	Publish(evt Event)
	Subscribe(handler Handler) (unsubscribe func())
}

type memoryBus struct {
	mu   sync.RWMutex
	subs map[int]Handler
	next int
	seq  int64
}

// NewBus creates a new in-memory event bus.
func NewBus() Bus {
	return &memoryBus{subs: make(map[int]Handler)}
}

func (b *memoryBus) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	if evt.ID == "" {
		b.mu.Lock()
		b.seq++
		evt.ID = fmt.Sprintf("%s-%d", evt.Type, b.seq)
		b.mu.Unlock()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() { recover() }()
			h(evt)
		}()
	}
}

func (b *memoryBus) Subscribe(handler Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// global is the process-wide bus, set once at startup by cmd/streamvod-server
// and read by any package that wants to publish without being handed a
// reference explicitly (the admin API subscribes this way).
var (
	globalMu  sync.RWMutex
	globalBus Bus
)

// SetGlobal installs the process-wide event bus.
func SetGlobal(b Bus) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalBus = b
}

// Global returns the process-wide event bus, creating an in-memory one on
// first use if none was installed (keeps library code safe to call from tests).
func Global() Bus {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalBus == nil {
		globalBus = NewBus()
	}
	return globalBus
}
