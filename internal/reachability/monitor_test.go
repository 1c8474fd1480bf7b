package reachability_test

import (
	"errors"
	"testing"

	"github.com/NeighborlyNG/location-core/internal/reachability"
)

// failingSource simulates a connectivity signal that cannot be read.
type failingSource struct{}

func (failingSource) Start(emit func(bool)) (func(), error) {
	return nil, errors.New("no connectivity provider")
}

func TestMonitor_InitialStateFromSource(t *testing.T) {
	m := reachability.NewMonitor(reachability.StaticSource{Connected: true})
	defer m.Close()
	if !m.IsOnline() {
		t.Error("expected online from a connected source")
	}

	m2 := reachability.NewMonitor(reachability.StaticSource{Connected: false})
	defer m2.Close()
	if m2.IsOnline() {
		t.Error("expected offline from a disconnected source")
	}
}

func TestMonitor_UnreadableSourceReportsOffline(t *testing.T) {
	m := reachability.NewMonitor(failingSource{})
	defer m.Close()
	if m.IsOnline() {
		t.Error("an unreadable source must conservatively report offline")
	}
}

func TestMonitor_NotifiesOnlyOnTransition(t *testing.T) {
	m := reachability.NewMonitor(reachability.StaticSource{Connected: false})
	defer m.Close()

	var events []bool
	m.Subscribe(func(online bool) { events = append(events, online) })

	// A flapping source repeating the same reading produces no event.
	m.Set(false)
	m.Set(false)
	if len(events) != 0 {
		t.Fatalf("got %d events for repeated offline readings, want 0", len(events))
	}

	m.Set(true)
	m.Set(true)
	m.Set(false)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (offline→online, online→offline)", len(events))
	}
	if events[0] != true || events[1] != false {
		t.Errorf("events = %v", events)
	}
}

func TestMonitor_Unsubscribe(t *testing.T) {
	m := reachability.NewMonitor(reachability.StaticSource{Connected: false})
	defer m.Close()

	calls := 0
	unsubscribe := m.Subscribe(func(bool) { calls++ })

	m.Set(true)
	unsubscribe()
	m.Set(false)

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestMonitor_PanickingSubscriberDoesNotBreakOthers(t *testing.T) {
	m := reachability.NewMonitor(reachability.StaticSource{Connected: false})
	defer m.Close()

	m.Subscribe(func(bool) { panic("bad subscriber") })
	okCalled := false
	m.Subscribe(func(bool) { okCalled = true })

	m.Set(true)

	if !okCalled {
		t.Error("healthy subscriber was not notified after another panicked")
	}
	if !m.IsOnline() {
		t.Error("monitor state corrupted by subscriber panic")
	}
}
