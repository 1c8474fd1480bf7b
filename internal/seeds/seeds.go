// Package seeds pre-warms the hierarchy cache from a YAML fixture so a
// fresh install can browse states, LGAs, wards, and neighborhoods before
// its first successful sync.
package seeds

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/NeighborlyNG/location-core/internal/cache"
	"github.com/NeighborlyNG/location-core/internal/location"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture is a YAML snapshot of the hierarchy levels.
type Fixture struct {
	States        []location.State        `yaml:"states"`
	LGAs          []location.LGA          `yaml:"lgas"`
	Wards         []location.Ward         `yaml:"wards"`
	Neighborhoods []location.Neighborhood `yaml:"neighborhoods"`
	Landmarks     []location.Landmark     `yaml:"landmarks"`
}

// Load parses a fixture file, or the embedded default when path is empty.
func Load(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Warm writes every non-empty level into the cache, stamped like a
// successful fetch so the normal TTL applies.
func (f *Fixture) Warm(ctx context.Context, c *cache.Cache) error {
	if len(f.States) > 0 {
		if err := cache.Put(ctx, c, cache.KeyStates, f.States); err != nil {
			return err
		}
	}
	if len(f.LGAs) > 0 {
		if err := cache.Put(ctx, c, cache.KeyLGAs, f.LGAs); err != nil {
			return err
		}
	}
	if len(f.Wards) > 0 {
		if err := cache.Put(ctx, c, cache.KeyWards, f.Wards); err != nil {
			return err
		}
	}
	if len(f.Neighborhoods) > 0 {
		if err := cache.Put(ctx, c, cache.KeyNeighborhoods, f.Neighborhoods); err != nil {
			return err
		}
	}
	if len(f.Landmarks) > 0 {
		if err := cache.Put(ctx, c, cache.KeyLandmarks, f.Landmarks); err != nil {
			return err
		}
	}

	log.Printf("[seeds] warmed cache: states=%d lgas=%d wards=%d neighborhoods=%d landmarks=%d",
		len(f.States), len(f.LGAs), len(f.Wards), len(f.Neighborhoods), len(f.Landmarks))
	return nil
}
