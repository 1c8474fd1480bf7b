package recommend

import (
	"math"

	"github.com/TomiHiltunen/geohash-golang"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// geohash cell minimum dimensions (meters, at the equator) by precision,
// used to pick a precision whose cell span is at least the search radius.
// With that guarantee, every point within radius of the query lies in the
// query's cell or one of its eight neighbors.
var precisionMinSpan = []struct {
	precision int
	minMeters float64
}{
	{6, 600},
	{5, 4800},
	{4, 19000},
	{3, 150000},
}

// precisionForRadius picks the finest precision whose cells still span at
// least radiusMeters at the query latitude. A cell's east-west extent
// shrinks by cos(latitude), so the equatorial spans are scaled down before
// the comparison. Returns 0 (full scan) when no precision qualifies.
func precisionForRadius(radiusMeters, latitude float64) int {
	shrink := math.Cos(latitude * math.Pi / 180)
	if shrink <= 0 {
		return 0
	}
	for _, p := range precisionMinSpan {
		if radiusMeters <= p.minMeters*shrink {
			return p.precision
		}
	}
	return 0
}

// prefilter narrows candidates to the geohash cell of coord and its
// neighbors before the exact haversine pass. Radii too large for the
// coarsest usable precision fall back to the full slice; the prefilter
// must never exclude a candidate within radius.
func prefilter(candidates []location.Neighborhood, coord location.Coordinates, radiusMeters float64) []location.Neighborhood {
	precision := precisionForRadius(radiusMeters, coord.Latitude)
	if precision == 0 || len(candidates) == 0 {
		return candidates
	}

	center := geohash.EncodeWithPrecision(coord.Latitude, coord.Longitude, precision)
	cells := map[string]bool{center: true}
	for _, adj := range geohash.CalculateAllAdjacent(center) {
		cells[adj] = true
	}

	kept := make([]location.Neighborhood, 0, len(candidates))
	for _, n := range candidates {
		if n.Coordinates == nil {
			continue
		}
		h := geohash.EncodeWithPrecision(n.Coordinates.Latitude, n.Coordinates.Longitude, precision)
		if cells[h] {
			kept = append(kept, n)
		}
	}
	return kept
}
