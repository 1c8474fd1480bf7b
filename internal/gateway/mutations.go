package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/NeighborlyNG/location-core/internal/cache"
	"github.com/NeighborlyNG/location-core/internal/location"
	"github.com/NeighborlyNG/location-core/internal/queue"
)

// PendingIDPrefix marks synthetic ids handed out for queued creates, so a
// placeholder can never be mistaken for a server-assigned id.
const PendingIDPrefix = "pending-"

// Queued action payloads. The create payload carries the synthetic id so
// the placeholder record can be replaced when the replayed create returns
// the server-assigned one.
type createPayload struct {
	PendingID string                     `json:"pending_id"`
	Input     location.UserLocationInput `json:"input"`
}

type updatePayload struct {
	ID    string                     `json:"id"`
	Input location.UserLocationInput `json:"input"`
}

type idPayload struct {
	ID string `json:"id"`
}

// shouldQueue reports whether a failed online mutation is recoverable by
// queueing. Transient failures are; remote rejections of the payload
// itself are surfaced to the caller instead.
func shouldQueue(err error) bool {
	switch location.CodeOf(err) {
	case location.ErrNetwork, location.ErrAPI:
		return true
	default:
		return false
	}
}

// CreateUserLocation creates a saved location. Offline (or on a transient
// failure) the mutation is queued and a synthetic success carrying the
// original payload is returned, so calling code proceeds without
// special-casing offline.
func (g *Gateway) CreateUserLocation(ctx context.Context, input location.UserLocationInput) location.Result[location.UserLocation] {
	if g.monitor.IsOnline() {
		created, err := g.remote.CreateUserLocation(ctx, input)
		if err == nil {
			g.applyToCache(ctx, created)
			return location.OK(created)
		}
		if !shouldQueue(err) {
			return location.Fail[location.UserLocation](location.CodeOf(err), err.Error())
		}
		log.Printf("[gateway] create failed, queueing: %v", err)
	}

	pending := location.UserLocation{
		ID:                 PendingIDPrefix + uuid.NewString(),
		StateID:            input.StateID,
		LGAID:              input.LGAID,
		WardID:             input.WardID,
		NeighborhoodID:     input.NeighborhoodID,
		CityTown:           input.CityTown,
		Coordinates:        input.Coordinates,
		IsPrimary:          input.IsPrimary,
		VerificationStatus: location.VerificationUnverified,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	payload := createPayload{PendingID: pending.ID, Input: input}
	if _, err := g.queue.Enqueue(ctx, queue.KindCreateLocation, payload); err != nil {
		return location.Fail[location.UserLocation](location.ErrUnknown, err.Error())
	}
	g.applyToCache(ctx, pending)
	return location.OKMsg(pending, QueuedMessage)
}

// UpdateUserLocation updates a saved location, queueing when offline.
func (g *Gateway) UpdateUserLocation(ctx context.Context, id string, input location.UserLocationInput) location.Result[location.UserLocation] {
	if g.monitor.IsOnline() {
		updated, err := g.remote.UpdateUserLocation(ctx, id, input)
		if err == nil {
			g.applyToCache(ctx, updated)
			return location.OK(updated)
		}
		if !shouldQueue(err) {
			return location.Fail[location.UserLocation](location.CodeOf(err), err.Error())
		}
		log.Printf("[gateway] update failed, queueing: %v", err)
	}

	if _, err := g.queue.Enqueue(ctx, queue.KindUpdateLocation, updatePayload{ID: id, Input: input}); err != nil {
		return location.Fail[location.UserLocation](location.ErrUnknown, err.Error())
	}

	// Merge the input into the cached record so the optimistic view keeps
	// the fields the payload doesn't carry (owner, verification, created).
	local, ok := g.cachedLocation(ctx, id)
	if !ok {
		local = location.UserLocation{
			ID:                 id,
			VerificationStatus: location.VerificationUnverified,
		}
	}
	local.StateID = input.StateID
	local.LGAID = input.LGAID
	local.WardID = input.WardID
	local.NeighborhoodID = input.NeighborhoodID
	local.CityTown = input.CityTown
	local.Coordinates = input.Coordinates
	local.IsPrimary = input.IsPrimary
	local.UpdatedAt = time.Now()

	g.applyToCache(ctx, local)
	return location.OKMsg(local, QueuedMessage)
}

// DeleteUserLocation removes a saved location, queueing when offline.
func (g *Gateway) DeleteUserLocation(ctx context.Context, id string) location.Result[string] {
	if g.monitor.IsOnline() {
		err := g.remote.DeleteUserLocation(ctx, id)
		if err == nil {
			g.removeFromCache(ctx, id)
			return location.OK(id)
		}
		if !shouldQueue(err) {
			return location.Fail[string](location.CodeOf(err), err.Error())
		}
		log.Printf("[gateway] delete failed, queueing: %v", err)
	}

	if _, err := g.queue.Enqueue(ctx, queue.KindDeleteLocation, idPayload{ID: id}); err != nil {
		return location.Fail[string](location.ErrUnknown, err.Error())
	}
	g.removeFromCache(ctx, id)
	return location.OKMsg(id, QueuedMessage)
}

// SetLocationAsPrimary marks one saved location primary, queueing when
// offline. The cached collection keeps the single-primary invariant either
// way.
func (g *Gateway) SetLocationAsPrimary(ctx context.Context, id string) location.Result[location.UserLocation] {
	if g.monitor.IsOnline() {
		updated, err := g.remote.SetPrimary(ctx, id)
		if err == nil {
			g.applyToCache(ctx, updated)
			return location.OK(updated)
		}
		if !shouldQueue(err) {
			return location.Fail[location.UserLocation](location.CodeOf(err), err.Error())
		}
		log.Printf("[gateway] set-primary failed, queueing: %v", err)
	}

	if _, err := g.queue.Enqueue(ctx, queue.KindSetPrimary, idPayload{ID: id}); err != nil {
		return location.Fail[location.UserLocation](location.ErrUnknown, err.Error())
	}
	local := g.markPrimaryInCache(ctx, id)
	return location.OKMsg(local, QueuedMessage)
}

// Apply replays one queued action against the remote service. It
// implements queue.Applier; the queue calls it during drain, strictly
// FIFO. Failures that replaying cannot fix (undecodable payloads, remote
// rejections of the payload itself) are marked queue.ErrPermanent so the
// drain discards them instead of requeueing.
func (g *Gateway) Apply(ctx context.Context, action queue.Action) error {
	switch action.Kind {
	case queue.KindCreateLocation:
		var p createPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: decode create payload: %w", queue.ErrPermanent, err)
		}
		created, err := g.remote.CreateUserLocation(ctx, p.Input)
		if err != nil {
			return replayErr(err)
		}
		g.removeFromCache(ctx, p.PendingID)
		g.applyToCache(ctx, created)
		return nil

	case queue.KindUpdateLocation:
		var p updatePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: decode update payload: %w", queue.ErrPermanent, err)
		}
		updated, err := g.remote.UpdateUserLocation(ctx, p.ID, p.Input)
		if err != nil {
			return replayErr(err)
		}
		g.applyToCache(ctx, updated)
		return nil

	case queue.KindDeleteLocation:
		var p idPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: decode delete payload: %w", queue.ErrPermanent, err)
		}
		if err := g.remote.DeleteUserLocation(ctx, p.ID); err != nil {
			return replayErr(err)
		}
		g.removeFromCache(ctx, p.ID)
		return nil

	case queue.KindSetPrimary:
		var p idPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return fmt.Errorf("%w: decode set-primary payload: %w", queue.ErrPermanent, err)
		}
		updated, err := g.remote.SetPrimary(ctx, p.ID)
		if err != nil {
			return replayErr(err)
		}
		g.applyToCache(ctx, updated)
		return nil

	default:
		return fmt.Errorf("%w: unknown action kind %q", queue.ErrPermanent, action.Kind)
	}
}

// replayErr classifies a remote failure during replay: the transient codes
// stay retryable, everything else is permanent.
func replayErr(err error) error {
	if shouldQueue(err) {
		return err
	}
	return fmt.Errorf("%w: %w", queue.ErrPermanent, err)
}

// cachedLocation looks one record up in the cached user-locations
// collection.
func (g *Gateway) cachedLocation(ctx context.Context, id string) (location.UserLocation, bool) {
	locs, hit, err := cache.Get[[]location.UserLocation](ctx, g.cache, cache.KeyUserLocations)
	if err != nil || !hit {
		return location.UserLocation{}, false
	}
	for _, l := range locs {
		if l.ID == id {
			return l, true
		}
	}
	return location.UserLocation{}, false
}

// applyToCache upserts one record into the cached user-locations
// collection, demoting any other primary when the record is primary. No-op
// when the collection has never been cached; the next read fetches fresh.
func (g *Gateway) applyToCache(ctx context.Context, loc location.UserLocation) {
	locs, hit, err := cache.Get[[]location.UserLocation](ctx, g.cache, cache.KeyUserLocations)
	if err != nil || !hit {
		return
	}

	replaced := false
	for i := range locs {
		if loc.IsPrimary && locs[i].ID != loc.ID {
			locs[i].IsPrimary = false
		}
		if locs[i].ID == loc.ID {
			locs[i] = loc
			replaced = true
		}
	}
	if !replaced {
		locs = append(locs, loc)
	}

	if err := cache.Put(ctx, g.cache, cache.KeyUserLocations, locs); err != nil {
		log.Printf("[gateway] cache update after mutation failed: %v", err)
	}
}

func (g *Gateway) removeFromCache(ctx context.Context, id string) {
	locs, hit, err := cache.Get[[]location.UserLocation](ctx, g.cache, cache.KeyUserLocations)
	if err != nil || !hit {
		return
	}
	kept := locs[:0]
	for _, l := range locs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if err := cache.Put(ctx, g.cache, cache.KeyUserLocations, kept); err != nil {
		log.Printf("[gateway] cache update after delete failed: %v", err)
	}
}

// markPrimaryInCache flips the primary flag locally and returns the
// promoted record (zero-valued except the id when the collection is not
// cached).
func (g *Gateway) markPrimaryInCache(ctx context.Context, id string) location.UserLocation {
	promoted := location.UserLocation{ID: id, IsPrimary: true}
	locs, hit, err := cache.Get[[]location.UserLocation](ctx, g.cache, cache.KeyUserLocations)
	if err != nil || !hit {
		return promoted
	}
	for i := range locs {
		locs[i].IsPrimary = locs[i].ID == id
		if locs[i].ID == id {
			promoted = locs[i]
		}
	}
	if err := cache.Put(ctx, g.cache, cache.KeyUserLocations, locs); err != nil {
		log.Printf("[gateway] cache update after set-primary failed: %v", err)
	}
	return promoted
}
