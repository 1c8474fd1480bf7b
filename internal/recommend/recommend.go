// Package recommend ranks neighborhoods around a coordinate. The score is
// deterministic: haversine distance in meters, discounted for close
// distance buckets and for gated/communal neighborhood types, sorted
// ascending with stable ties.
package recommend

import (
	"context"
	"math"
	"sort"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// EarthRadiusMeters is the haversine sphere radius.
const EarthRadiusMeters = 6371000

// Distance-bucket and type multipliers. Lower score ranks higher.
const (
	nearBucketMeters = 1000
	midBucketMeters  = 2000

	nearBucketWeight = 0.8
	midBucketWeight  = 0.9

	estateWeight    = 0.9
	communityWeight = 0.95
)

// Recommendation is one ranked neighborhood.
type Recommendation struct {
	Neighborhood   location.Neighborhood `json:"neighborhood"`
	DistanceMeters float64               `json:"distance_meters"`
	Score          float64               `json:"score"`
}

// Haversine returns the great-circle distance in meters between two
// points.
func Haversine(a, b location.Coordinates) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	dPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	dLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Score computes the rank score for a neighborhood at the given distance.
func Score(distanceMeters float64, nbType location.NeighborhoodType) float64 {
	score := distanceMeters
	switch {
	case distanceMeters < nearBucketMeters:
		score *= nearBucketWeight
	case distanceMeters < midBucketMeters:
		score *= midBucketWeight
	}
	switch nbType {
	case location.NeighborhoodEstate:
		score *= estateWeight
	case location.NeighborhoodCommunity:
		score *= communityWeight
	}
	return score
}

// Rank filters candidates to those with known coordinates within
// radiusMeters of coord, scores them, and returns the best limit entries
// in ascending score order. Exact score ties keep original order.
func Rank(candidates []location.Neighborhood, coord location.Coordinates, radiusMeters float64, limit int) []Recommendation {
	recs := make([]Recommendation, 0, len(candidates))
	for _, n := range prefilter(candidates, coord, radiusMeters) {
		if n.Coordinates == nil {
			continue
		}
		d := Haversine(coord, *n.Coordinates)
		if d > radiusMeters {
			continue
		}
		recs = append(recs, Recommendation{
			Neighborhood:   n,
			DistanceMeters: d,
			Score:          Score(d, n.Type),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score < recs[j].Score
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// NeighborhoodSource is the slice of the gateway the engine reads through.
type NeighborhoodSource interface {
	AllNeighborhoods(ctx context.Context) location.Result[[]location.Neighborhood]
}

// CoordinateSource supplies the current selection coordinate.
type CoordinateSource interface {
	CurrentCoordinates() *location.Coordinates
}

// Engine ties the scoring to the cached neighborhood level and the
// current selection.
type Engine struct {
	source NeighborhoodSource
	coords CoordinateSource
}

func NewEngine(source NeighborhoodSource, coords CoordinateSource) *Engine {
	return &Engine{source: source, coords: coords}
}

// RecommendAt ranks neighborhoods around an explicit coordinate.
func (e *Engine) RecommendAt(ctx context.Context, coord location.Coordinates, radiusMeters float64, limit int) location.Result[[]Recommendation] {
	res := e.source.AllNeighborhoods(ctx)
	if !res.Success {
		return location.Fail[[]Recommendation](res.Code, res.Message)
	}
	return location.OK(Rank(res.Data, coord, radiusMeters, limit))
}

// Recommend ranks neighborhoods around the current selection coordinate.
func (e *Engine) Recommend(ctx context.Context, radiusMeters float64, limit int) location.Result[[]Recommendation] {
	coord := e.coords.CurrentCoordinates()
	if coord == nil {
		return location.Fail[[]Recommendation](location.ErrValidation, "no coordinates selected")
	}
	return e.RecommendAt(ctx, *coord, radiusMeters, limit)
}
