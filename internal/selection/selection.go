// Package selection holds the user's current place in the hierarchy. The
// cascade rule lives in one pure reducer: changing an ancestor clears every
// descendant selection, so the invariant is enforced in exactly one place.
package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// StoreKey is the durable-store key holding the selection snapshot.
const StoreKey = "selection"

// Selection is the current State/LGA/Ward/Neighborhood/coordinate choice.
// Empty string means unset.
type Selection struct {
	StateID        string                `json:"state_id,omitempty"`
	LGAID          string                `json:"lga_id,omitempty"`
	WardID         string                `json:"ward_id,omitempty"`
	NeighborhoodID string                `json:"neighborhood_id,omitempty"`
	Coordinates    *location.Coordinates `json:"coordinates,omitempty"`
}

// Field names a selectable level.
type Field string

const (
	FieldState        Field = "state"
	FieldLGA          Field = "lga"
	FieldWard         Field = "ward"
	FieldNeighborhood Field = "neighborhood"
	FieldCoordinates  Field = "coordinates"
)

// Change is one selection update.
type Change struct {
	Field       Field
	ID          string
	Coordinates *location.Coordinates
}

// Apply is the pure cascade reducer: selecting a new state clears LGA,
// ward, and neighborhood; a new LGA clears ward and neighborhood; a new
// ward clears neighborhood only. Coordinates are independent of the chain.
func Apply(old Selection, ch Change) Selection {
	next := old
	switch ch.Field {
	case FieldState:
		next.StateID = ch.ID
		next.LGAID = ""
		next.WardID = ""
		next.NeighborhoodID = ""
	case FieldLGA:
		next.LGAID = ch.ID
		next.WardID = ""
		next.NeighborhoodID = ""
	case FieldWard:
		next.WardID = ch.ID
		next.NeighborhoodID = ""
	case FieldNeighborhood:
		next.NeighborhoodID = ch.ID
	case FieldCoordinates:
		next.Coordinates = ch.Coordinates
	}
	return next
}

// persistence is the durable primitive the tracker snapshots through.
type persistence interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Tracker wraps the reducer with a persisted snapshot, so the selection
// survives process restart.
type Tracker struct {
	store persistence

	mu      sync.Mutex
	current Selection
}

// Load restores the persisted selection, starting empty when none exists.
func Load(ctx context.Context, s persistence) (*Tracker, error) {
	t := &Tracker{store: s}
	raw, found, err := s.Get(ctx, StoreKey)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	if found {
		if err := json.Unmarshal(raw, &t.current); err != nil {
			log.Printf("[selection] discarding corrupt snapshot: %v", err)
			t.current = Selection{}
		}
	}
	return t, nil
}

// Current returns the selection snapshot.
func (t *Tracker) Current() Selection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// CurrentCoordinates returns the selected coordinate, nil when unset. The
// recommendation engine reads through this.
func (t *Tracker) CurrentCoordinates() *location.Coordinates {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Coordinates
}

// Update applies one change through the reducer and persists the result.
func (t *Tracker) Update(ctx context.Context, ch Change) (Selection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := Apply(t.current, ch)
	if err := t.persistLocked(ctx, next); err != nil {
		return t.current, err
	}
	t.current = next
	return next, nil
}

// Clear resets the whole chain plus coordinates in one atomic step.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.persistLocked(ctx, Selection{}); err != nil {
		return err
	}
	t.current = Selection{}
	return nil
}

func (t *Tracker) persistLocked(ctx context.Context, s Selection) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := t.store.Put(ctx, StoreKey, raw); err != nil {
		return fmt.Errorf("persist selection: %w", err)
	}
	return nil
}
