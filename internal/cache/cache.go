// Package cache layers a TTL-bounded, schema-versioned collection cache on
// top of the durable key-value store. Each hierarchy level is cached as one
// coarse collection keyed by level; callers filter by parent id in memory.
// One cache write per successful fetch, no partial-key invalidation, at the
// cost of re-fetching a whole level when only one branch is needed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/NeighborlyNG/location-core/internal/store"
)

// TTL is the fixed cache-validity window. Expiry is checked lazily on
// read; there is no background eviction.
const TTL = 24 * time.Hour

// SchemaVersion invalidates every entry written by an incompatible build.
const SchemaVersion = 1

// Managed keys. The last-sync timestamp lives beside the collections but
// is not a cached collection itself.
const (
	KeyStates        = "states"
	KeyLGAs          = "lgas"
	KeyWards         = "wards"
	KeyNeighborhoods = "neighborhoods"
	KeyLandmarks     = "landmarks"
	KeyUserLocations = "user-locations"
	KeyLastSync      = "last-sync"
)

// CollectionKeys lists every managed cache collection, in clear order.
var CollectionKeys = []string{
	KeyStates, KeyLGAs, KeyWards, KeyNeighborhoods, KeyLandmarks, KeyUserLocations,
}

// Entry wraps a cached payload with its write timestamp and schema
// version. An entry is valid iff now-Timestamp < TTL and the version
// matches SchemaVersion.
type Entry[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"` // epoch milliseconds
	Version   int   `json:"version"`
}

// Cache is the entity cache store. The zero value is not usable; construct
// with New.
type Cache struct {
	store store.Store
	now   func() time.Time
}

// Option tweaks cache construction.
type Option func(*Cache)

// WithClock substitutes the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(s store.Store, opts ...Option) *Cache {
	c := &Cache{store: s, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads a cached collection. ok=false means a miss: absent key,
// expired entry, or schema mismatch. An empty cached slice is a valid hit,
// distinct from a miss.
func Get[T any](ctx context.Context, c *Cache, key string) (value T, ok bool, err error) {
	var zero T

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("cache read %q: %w", key, err)
	}
	if !found {
		return zero, false, nil
	}

	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entry: treat as a miss rather than failing the read.
		return zero, false, nil
	}
	if entry.Version != SchemaVersion {
		return zero, false, nil
	}
	writtenAt := time.UnixMilli(entry.Timestamp)
	if c.now().Sub(writtenAt) >= TTL {
		return zero, false, nil
	}

	return entry.Data, true, nil
}

// Put writes a collection with a fresh timestamp. The write is a single
// store put, so readers see either the old or the fully-new collection.
func Put[T any](ctx context.Context, c *Cache, key string, value T) error {
	entry := Entry[T]{
		Data:      value,
		Timestamp: c.now().UnixMilli(),
		Version:   SchemaVersion,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := c.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("cache write %q: %w", key, err)
	}
	return nil
}

// Clear removes one managed collection, or every managed collection when
// key is empty.
func (c *Cache) Clear(ctx context.Context, key string) error {
	if key != "" {
		return c.store.Delete(ctx, key)
	}
	for _, k := range CollectionKeys {
		if err := c.store.Delete(ctx, k); err != nil {
			return err
		}
	}
	return c.store.Delete(ctx, KeyLastSync)
}

// Size counts the managed collections currently present in the store,
// valid or not; expiry is a read-time concern.
func (c *Cache) Size(ctx context.Context) (int, error) {
	n := 0
	for _, k := range CollectionKeys {
		_, found, err := c.store.Get(ctx, k)
		if err != nil {
			return 0, err
		}
		if found {
			n++
		}
	}
	return n, nil
}

// MarkSynced records the last successful sync as epoch milliseconds.
func (c *Cache) MarkSynced(ctx context.Context) error {
	ms := strconv.FormatInt(c.now().UnixMilli(), 10)
	return c.store.Put(ctx, KeyLastSync, []byte(ms))
}

// LastSync returns the recorded last-sync time, or the zero time when none
// has been recorded.
func (c *Cache) LastSync(ctx context.Context) (time.Time, error) {
	raw, found, err := c.store.Get(ctx, KeyLastSync)
	if err != nil || !found {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms), nil
}
