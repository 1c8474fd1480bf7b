// Package gateway is the app-facing contract of the location core. Every
// read goes cache-first with remote read-through; every write goes remote
// with queue write-behind when the device is offline. The rest of the app
// never touches the transport, the cache, or the queue directly.
package gateway

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NeighborlyNG/location-core/internal/cache"
	"github.com/NeighborlyNG/location-core/internal/location"
	"github.com/NeighborlyNG/location-core/internal/queue"
	"github.com/NeighborlyNG/location-core/internal/reachability"
)

// QueuedMessage is the synthetic-success message returned for a mutation
// captured while offline.
const QueuedMessage = "Queued for sync when online"

// Remote is the transport surface the gateway needs. remote.Client is the
// production implementation; tests substitute a fake.
type Remote interface {
	FetchStates(ctx context.Context) ([]location.State, error)
	FetchLGAs(ctx context.Context) ([]location.LGA, error)
	FetchWards(ctx context.Context) ([]location.Ward, error)
	FetchNeighborhoods(ctx context.Context) ([]location.Neighborhood, error)
	FetchLandmarks(ctx context.Context) ([]location.Landmark, error)
	FetchUserLocations(ctx context.Context) ([]location.UserLocation, error)
	CreateUserLocation(ctx context.Context, input location.UserLocationInput) (location.UserLocation, error)
	UpdateUserLocation(ctx context.Context, id string, input location.UserLocationInput) (location.UserLocation, error)
	DeleteUserLocation(ctx context.Context, id string) error
	SetPrimary(ctx context.Context, id string) (location.UserLocation, error)
}

// Gateway wires the cache, queue, monitor, and transport together.
type Gateway struct {
	cache   *cache.Cache
	queue   *queue.Queue
	monitor *reachability.Monitor
	remote  Remote
}

// New builds the gateway and subscribes the queue drain to the monitor's
// offline→online transition.
func New(c *cache.Cache, q *queue.Queue, m *reachability.Monitor, r Remote) *Gateway {
	g := &Gateway{cache: c, queue: q, monitor: m, remote: r}
	m.Subscribe(func(online bool) {
		if online {
			g.queue.Drain(context.Background(), g)
		}
	})
	return g
}

// DrainNow replays the offline queue immediately, outside the monitor's
// transition path. Used on startup when the device comes up online.
func (g *Gateway) DrainNow(ctx context.Context) []queue.Outcome {
	return g.queue.Drain(ctx, g)
}

// readLevel is the shared read path: cache hit wins; on a miss the full
// level collection is fetched and cached when online, or a typed failure
// is returned when offline.
func readLevel[T any](ctx context.Context, g *Gateway, key string, fetch func(context.Context) ([]T, error)) location.Result[[]T] {
	cached, hit, err := cache.Get[[]T](ctx, g.cache, key)
	if err != nil {
		log.Printf("[gateway] cache read %s failed: %v", key, err)
	}
	if hit {
		return location.OK(cached)
	}

	if !g.monitor.IsOnline() {
		return location.Fail[[]T](location.ErrNetwork,
			fmt.Sprintf("Offline and no cached %s available", key))
	}

	data, err := fetch(ctx)
	if err != nil {
		return location.Fail[[]T](location.CodeOf(err), err.Error())
	}
	if data == nil {
		data = []T{}
	}

	if err := cache.Put(ctx, g.cache, key, data); err != nil {
		log.Printf("[gateway] cache write %s failed: %v", key, err)
	}
	if err := g.cache.MarkSynced(ctx); err != nil {
		log.Printf("[gateway] mark synced failed: %v", err)
	}
	return location.OK(data)
}

// GetStates returns the root of the hierarchy.
func (g *Gateway) GetStates(ctx context.Context) location.Result[[]location.State] {
	return readLevel(ctx, g, cache.KeyStates, g.remote.FetchStates)
}

// GetLGAsByState returns the LGAs under a state, optionally filtered by
// LGA/LCDA type. The whole level is cached; filtering happens in memory.
func (g *Gateway) GetLGAsByState(ctx context.Context, stateID string, lgaType *location.LGAType) location.Result[[]location.LGA] {
	res := readLevel(ctx, g, cache.KeyLGAs, g.remote.FetchLGAs)
	if !res.Success {
		return res
	}
	filtered := make([]location.LGA, 0, len(res.Data))
	for _, lga := range res.Data {
		if lga.StateID != stateID {
			continue
		}
		if lgaType != nil && lga.Type != *lgaType {
			continue
		}
		filtered = append(filtered, lga)
	}
	return location.OK(filtered)
}

// GetWardsByLGA returns the wards under an LGA.
func (g *Gateway) GetWardsByLGA(ctx context.Context, lgaID string) location.Result[[]location.Ward] {
	res := readLevel(ctx, g, cache.KeyWards, g.remote.FetchWards)
	if !res.Success {
		return res
	}
	filtered := make([]location.Ward, 0, len(res.Data))
	for _, w := range res.Data {
		if w.LGAID == lgaID {
			filtered = append(filtered, w)
		}
	}
	return location.OK(filtered)
}

// GetNeighborhoodsByWard returns the neighborhoods under a ward.
func (g *Gateway) GetNeighborhoodsByWard(ctx context.Context, wardID string) location.Result[[]location.Neighborhood] {
	res := readLevel(ctx, g, cache.KeyNeighborhoods, g.remote.FetchNeighborhoods)
	if !res.Success {
		return res
	}
	filtered := make([]location.Neighborhood, 0, len(res.Data))
	for _, n := range res.Data {
		if n.WardID == wardID {
			filtered = append(filtered, n)
		}
	}
	return location.OK(filtered)
}

// AllNeighborhoods returns the full cached (or freshly fetched)
// neighborhood level. The recommendation engine and fuzzy search consume
// this.
func (g *Gateway) AllNeighborhoods(ctx context.Context) location.Result[[]location.Neighborhood] {
	return readLevel(ctx, g, cache.KeyNeighborhoods, g.remote.FetchNeighborhoods)
}

// GetNearbyLandmarks returns the landmarks attached to a neighborhood.
func (g *Gateway) GetNearbyLandmarks(ctx context.Context, neighborhoodID string) location.Result[[]location.Landmark] {
	res := readLevel(ctx, g, cache.KeyLandmarks, g.remote.FetchLandmarks)
	if !res.Success {
		return res
	}
	filtered := make([]location.Landmark, 0, len(res.Data))
	for _, lm := range res.Data {
		if lm.NeighborhoodID == neighborhoodID {
			filtered = append(filtered, lm)
		}
	}
	return location.OK(filtered)
}

// GetUserLocations returns the user's saved locations, queued placeholders
// included.
func (g *Gateway) GetUserLocations(ctx context.Context) location.Result[[]location.UserLocation] {
	return readLevel(ctx, g, cache.KeyUserLocations, g.remote.FetchUserLocations)
}

// SyncStatus is the cache/queue introspection result.
type SyncStatus struct {
	HasOfflineData bool      `json:"has_offline_data"`
	LastSyncTime   time.Time `json:"last_sync_time"`
	QueueLength    int       `json:"queue_length"`
	CacheSize      int       `json:"cache_size"`
}

// Introspect reports unsynced work and cache occupancy. Queue length is
// the user-visible signal of pending offline writes.
func (g *Gateway) Introspect(ctx context.Context) (SyncStatus, error) {
	size, err := g.cache.Size(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("cache size: %w", err)
	}
	lastSync, err := g.cache.LastSync(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("last sync: %w", err)
	}
	return SyncStatus{
		HasOfflineData: size > 0,
		LastSyncTime:   lastSync,
		QueueLength:    g.queue.Length(),
		CacheSize:      size,
	}, nil
}

// ClearCache drops every cached collection and the last-sync marker.
func (g *Gateway) ClearCache(ctx context.Context) error {
	return g.cache.Clear(ctx, "")
}
