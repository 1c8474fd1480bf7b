// Package reachability tracks device connectivity. A Monitor wraps a
// push-based Source, debounces flapping by only notifying on an actual
// boolean transition, and fans transitions out to subscribers.
package reachability

import (
	"log"
	"sync"
)

// Source is the underlying connectivity signal. Start begins delivering
// connected-state events to emit and returns a stop function. A Source that
// cannot be read should report an error from Start; the monitor then
// conservatively assumes offline.
type Source interface {
	Start(emit func(connected bool)) (stop func(), err error)
}

// Subscriber receives transition events. online is the new state.
type Subscriber func(online bool)

// Monitor exposes a synchronous last-known "is online" predicate plus a
// subscription mechanism for transition events.
type Monitor struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]Subscriber
	stop   func()
}

// NewMonitor starts observing the source. If the source cannot be started
// the monitor still works, pinned to offline until Set is called.
func NewMonitor(src Source) *Monitor {
	m := &Monitor{subs: make(map[int]Subscriber)}

	stop, err := src.Start(m.Set)
	if err != nil {
		log.Printf("[reachability] source unavailable, assuming offline: %v", err)
		return m
	}
	m.stop = stop
	return m
}

// IsOnline reports the last-known connectivity state.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set records a connectivity reading and, on an actual transition,
// notifies subscribers. Repeated readings of the same state are dropped,
// so a flapping source only produces boolean transitions.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]Subscriber, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	log.Printf("[reachability] transition online=%v", online)
	for _, s := range subs {
		notify(s, online)
	}
}

// notify runs one subscriber, containing panics so one bad subscriber
// cannot break the others.
func notify(s Subscriber, online bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[reachability] subscriber panic: %v", r)
		}
	}()
	s(online)
}

// Subscribe registers a callback for transition events and returns an
// unsubscribe function.
func (m *Monitor) Subscribe(s Subscriber) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = s
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Close stops the underlying source.
func (m *Monitor) Close() {
	if m.stop != nil {
		m.stop()
	}
}

// StaticSource is a Source with a fixed initial reading, used by tests and
// by the daemon's manual connectivity override.
type StaticSource struct {
	Connected bool
}

func (s StaticSource) Start(emit func(bool)) (func(), error) {
	emit(s.Connected)
	return func() {}, nil
}
