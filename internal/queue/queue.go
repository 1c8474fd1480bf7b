// Package queue implements the durable offline mutation queue: an ordered
// list of pending writes captured while the device is offline (or after a
// failed write), replayed FIFO against the remote service when
// connectivity returns.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NeighborlyNG/location-core/internal/store"
)

// StoreKey is the durable-store key holding the serialized queue.
const StoreKey = "offline-queue"

// ActionKind identifies the queued mutation.
type ActionKind string

const (
	KindCreateLocation ActionKind = "CREATE_LOCATION"
	KindUpdateLocation ActionKind = "UPDATE_LOCATION"
	KindDeleteLocation ActionKind = "DELETE_LOCATION"
	KindSetPrimary     ActionKind = "SET_PRIMARY"
)

// Action is one pending offline mutation.
type Action struct {
	ID         string          `json:"id"`
	Kind       ActionKind      `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Applier replays one action against the remote service. The gateway is
// the production implementation.
type Applier interface {
	Apply(ctx context.Context, action Action) error
}

// ErrPermanent marks an Apply failure that replaying cannot fix (an
// undecodable payload, a rejected mutation). The drain discards such
// actions instead of requeueing them.
var ErrPermanent = errors.New("permanent failure")

// Outcome reports how one action fared during a drain pass, so
// reconciliation is inspectable rather than only logged.
type Outcome struct {
	ActionID string
	Kind     ActionKind
	Status   OutcomeStatus
	Reason   string
}

type OutcomeStatus string

const (
	OutcomeApplied  OutcomeStatus = "APPLIED"
	OutcomeFailed   OutcomeStatus = "FAILED"
	OutcomeRequeued OutcomeStatus = "REQUEUED"
)

// Queue is the durable FIFO of offline actions. Safe for the app's
// cooperative scheduling: the draining flag makes Drain non-reentrant, and
// the mutex covers the enqueue/drain overlap.
type Queue struct {
	store store.Store

	mu       sync.Mutex
	actions  []Action
	draining bool
}

// Load restores the persisted queue, returning an empty queue when nothing
// was persisted yet.
func Load(ctx context.Context, s store.Store) (*Queue, error) {
	q := &Queue{store: s}

	raw, found, err := s.Get(ctx, StoreKey)
	if err != nil {
		return nil, fmt.Errorf("load offline queue: %w", err)
	}
	if found {
		if err := json.Unmarshal(raw, &q.actions); err != nil {
			// A corrupt queue is unrecoverable; start empty rather than
			// wedging every future mutation.
			log.Printf("[queue] discarding corrupt persisted queue: %v", err)
			q.actions = nil
		}
	}
	return q, nil
}

// Enqueue appends an action and persists the queue before returning the
// generated action id.
func (q *Queue) Enqueue(ctx context.Context, kind ActionKind, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", kind, err)
	}

	action := Action{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = append(q.actions, action)
	if err := q.persistLocked(ctx); err != nil {
		q.actions = q.actions[:len(q.actions)-1]
		return "", err
	}

	log.Printf("[queue] enqueued %s action=%s depth=%d", kind, action.ID, len(q.actions))
	return action.ID, nil
}

// Length reports the number of unsynced actions.
func (q *Queue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// Drain replays queued actions strictly FIFO, one at a time. A failing
// action is returned to the end of the queue and draining continues,
// unless the failure is marked ErrPermanent, in which case the action is
// discarded. Draining stops once a full pass makes no progress, so a
// transiently failing action cannot spin a tight loop. A Drain call while
// another is in progress is a no-op.
func (q *Queue) Drain(ctx context.Context, applier Applier) []Outcome {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return nil
	}
	q.draining = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	var outcomes []Outcome
	for {
		q.mu.Lock()
		passSize := len(q.actions)
		q.mu.Unlock()
		if passSize == 0 {
			break
		}

		progressed := false
		for i := 0; i < passSize; i++ {
			q.mu.Lock()
			if len(q.actions) == 0 {
				q.mu.Unlock()
				break
			}
			action := q.actions[0]
			q.mu.Unlock()

			if err := applier.Apply(ctx, action); err != nil {
				if errors.Is(err, ErrPermanent) {
					log.Printf("[queue] %s action=%s discarded: %v", action.Kind, action.ID, err)
					q.dequeue(ctx, action.ID)
					progressed = true
					outcomes = append(outcomes, Outcome{
						ActionID: action.ID,
						Kind:     action.Kind,
						Status:   OutcomeFailed,
						Reason:   err.Error(),
					})
					continue
				}
				log.Printf("[queue] %s action=%s failed, requeued: %v", action.Kind, action.ID, err)
				q.requeue(ctx, action)
				outcomes = append(outcomes, Outcome{
					ActionID: action.ID,
					Kind:     action.Kind,
					Status:   OutcomeRequeued,
					Reason:   err.Error(),
				})
				continue
			}

			q.dequeue(ctx, action.ID)
			progressed = true
			outcomes = append(outcomes, Outcome{
				ActionID: action.ID,
				Kind:     action.Kind,
				Status:   OutcomeApplied,
			})
		}

		if !progressed {
			break
		}
	}

	if len(outcomes) > 0 {
		log.Printf("[queue] drain finished outcomes=%d remaining=%d", len(outcomes), q.Length())
	}
	return outcomes
}

// requeue moves a failed head action to the tail.
func (q *Queue) requeue(ctx context.Context, action Action) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.actions) == 0 || q.actions[0].ID != action.ID {
		return
	}
	q.actions = append(q.actions[1:], action)
	if err := q.persistLocked(ctx); err != nil {
		log.Printf("[queue] persist after requeue failed: %v", err)
	}
}

// dequeue removes a successfully applied head action.
func (q *Queue) dequeue(ctx context.Context, id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.actions) == 0 || q.actions[0].ID != id {
		return
	}
	q.actions = q.actions[1:]
	if err := q.persistLocked(ctx); err != nil {
		log.Printf("[queue] persist after dequeue failed: %v", err)
	}
}

func (q *Queue) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(q.actions)
	if err != nil {
		return fmt.Errorf("encode offline queue: %w", err)
	}
	if err := q.store.Put(ctx, StoreKey, raw); err != nil {
		return fmt.Errorf("persist offline queue: %w", err)
	}
	return nil
}
