package recommend_test

import (
	"math"
	"testing"

	"github.com/NeighborlyNG/location-core/internal/location"
	"github.com/NeighborlyNG/location-core/internal/recommend"
)

// atDistanceNorth returns a point the given number of meters due north of
// origin; a pure-latitude offset makes the haversine distance exact.
func atDistanceNorth(origin location.Coordinates, meters float64) *location.Coordinates {
	dLat := meters / recommend.EarthRadiusMeters * 180 / math.Pi
	return &location.Coordinates{Latitude: origin.Latitude + dLat, Longitude: origin.Longitude}
}

func atDistanceSouth(origin location.Coordinates, meters float64) *location.Coordinates {
	dLat := meters / recommend.EarthRadiusMeters * 180 / math.Pi
	return &location.Coordinates{Latitude: origin.Latitude - dLat, Longitude: origin.Longitude}
}

// atDistanceEast offsets along a parallel, where a degree of longitude is
// worth cos(latitude) of its equatorial length.
func atDistanceEast(origin location.Coordinates, meters float64) *location.Coordinates {
	dLng := meters / (recommend.EarthRadiusMeters * math.Cos(origin.Latitude*math.Pi/180)) * 180 / math.Pi
	return &location.Coordinates{Latitude: origin.Latitude, Longitude: origin.Longitude + dLng}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Lagos Island to the National Theatre, roughly 4.6 km.
	a := location.Coordinates{Latitude: 6.4550, Longitude: 3.3841}
	b := location.Coordinates{Latitude: 6.4747, Longitude: 3.3668}

	d := recommend.Haversine(a, b)
	if d < 2500 || d > 5000 {
		t.Errorf("haversine distance = %.0f m, expected a few kilometers", d)
	}

	if got := recommend.Haversine(a, a); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
}

func TestScore_BucketAndTypeWeights(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		nbType   location.NeighborhoodType
		want     float64
	}{
		{"near area", 400, location.NeighborhoodArea, 320},         // 400*0.8
		{"near estate", 900, location.NeighborhoodEstate, 648},     // 900*0.8*0.9
		{"mid estate", 1500, location.NeighborhoodEstate, 1215},    // 1500*0.9*0.9
		{"mid community", 1500, location.NeighborhoodCommunity, 1282.5},
		{"far area", 3000, location.NeighborhoodArea, 3000},
		{"boundary at 1000 takes mid bucket", 1000, location.NeighborhoodArea, 900},
		{"boundary at 2000 takes no bucket", 2000, location.NeighborhoodArea, 2000},
	}

	for _, tc := range cases {
		if got := recommend.Score(tc.distance, tc.nbType); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: score = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRank_EstateBeforeCommunityAtEqualDistance(t *testing.T) {
	center := location.Coordinates{Latitude: 6.5244, Longitude: 3.3792}
	candidates := []location.Neighborhood{
		{ID: "community", Type: location.NeighborhoodCommunity, Coordinates: atDistanceNorth(center, 1500)},
		{ID: "estate", Type: location.NeighborhoodEstate, Coordinates: atDistanceSouth(center, 1500)},
	}

	recs := recommend.Rank(candidates, center, 5000, 0)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Neighborhood.ID != "estate" || recs[1].Neighborhood.ID != "community" {
		t.Errorf("order = [%s %s], want [estate community]",
			recs[0].Neighborhood.ID, recs[1].Neighborhood.ID)
	}
	if math.Abs(recs[0].Score-1215) > 0.5 {
		t.Errorf("estate score = %v, want ~1215", recs[0].Score)
	}
	if math.Abs(recs[1].Score-1282.5) > 0.5 {
		t.Errorf("community score = %v, want ~1282.5", recs[1].Score)
	}
}

func TestRank_RadiusLimitAndMissingCoordinates(t *testing.T) {
	center := location.Coordinates{Latitude: 6.5244, Longitude: 3.3792}
	candidates := []location.Neighborhood{
		{ID: "area-400", Type: location.NeighborhoodArea, Coordinates: atDistanceNorth(center, 400)},
		{ID: "estate-900", Type: location.NeighborhoodEstate, Coordinates: atDistanceSouth(center, 900)},
		{ID: "community-6000", Type: location.NeighborhoodCommunity, Coordinates: atDistanceNorth(center, 6000)},
		{ID: "no-coords", Type: location.NeighborhoodArea},
	}

	recs := recommend.Rank(candidates, center, 5000, 10)

	// The 6000 m candidate is outside the radius and the coordinate-less
	// one can never be ranked.
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2: %+v", len(recs), recs)
	}
	if recs[0].Neighborhood.ID != "area-400" || recs[1].Neighborhood.ID != "estate-900" {
		t.Errorf("order = [%s %s], want [area-400 estate-900]",
			recs[0].Neighborhood.ID, recs[1].Neighborhood.ID)
	}
	if math.Abs(recs[0].Score-320) > 0.5 {
		t.Errorf("area score = %v, want ~320", recs[0].Score)
	}
	if math.Abs(recs[1].Score-648) > 0.5 {
		t.Errorf("estate score = %v, want ~648", recs[1].Score)
	}

	if got := recommend.Rank(candidates, center, 5000, 1); len(got) != 1 {
		t.Errorf("limit 1 returned %d entries", len(got))
	}
}

func TestRank_StableOnExactTies(t *testing.T) {
	center := location.Coordinates{Latitude: 6.5244, Longitude: 3.3792}
	// Same type, same distance: identical scores, original order kept.
	coords := atDistanceNorth(center, 1200)
	candidates := []location.Neighborhood{
		{ID: "first", Type: location.NeighborhoodArea, Coordinates: coords},
		{ID: "second", Type: location.NeighborhoodArea, Coordinates: coords},
	}

	recs := recommend.Rank(candidates, center, 5000, 0)
	if len(recs) != 2 || recs[0].Neighborhood.ID != "first" || recs[1].Neighborhood.ID != "second" {
		t.Errorf("tie order not stable: %+v", recs)
	}
}

func TestRank_LargeRadiusFallsBackToFullScan(t *testing.T) {
	center := location.Coordinates{Latitude: 6.5244, Longitude: 3.3792}
	far := atDistanceNorth(center, 180000)
	candidates := []location.Neighborhood{
		{ID: "far", Type: location.NeighborhoodArea, Coordinates: far},
	}

	// A radius beyond every geohash precision bucket must not lose
	// in-radius candidates to the prefilter.
	recs := recommend.Rank(candidates, center, 200000, 0)
	if len(recs) != 1 || recs[0].Neighborhood.ID != "far" {
		t.Errorf("expected far candidate to survive full-scan ranking: %+v", recs)
	}
}

func TestRank_HighLatitudeKeepsInRadiusCandidates(t *testing.T) {
	// Geohash cells narrow east-west toward the poles, so a precision that
	// spans the radius at the equator is too fine at 80°N. The in-radius
	// candidate must survive the prefilter regardless.
	center := location.Coordinates{Latitude: 80.0, Longitude: 3.3792}
	candidates := []location.Neighborhood{
		{ID: "east-550", Type: location.NeighborhoodArea, Coordinates: atDistanceEast(center, 550)},
	}

	recs := recommend.Rank(candidates, center, 600, 0)
	if len(recs) != 1 || recs[0].Neighborhood.ID != "east-550" {
		t.Fatalf("candidate at 550 m within 600 m radius lost at high latitude: %+v", recs)
	}
	if recs[0].DistanceMeters > 600 {
		t.Errorf("distance = %.0f m, want <= 600", recs[0].DistanceMeters)
	}
}

func TestLocateNeighborhood_BoundaryContainment(t *testing.T) {
	// A rough square around Allen Avenue, Ikeja.
	boundary := []location.Coordinates{
		{Latitude: 6.59, Longitude: 3.34},
		{Latitude: 6.59, Longitude: 3.36},
		{Latitude: 6.61, Longitude: 3.36},
		{Latitude: 6.61, Longitude: 3.34},
	}
	candidates := []location.Neighborhood{
		{ID: "no-boundary"},
		{ID: "allen", Boundary: boundary},
	}

	inside := location.Coordinates{Latitude: 6.60, Longitude: 3.35}
	if got := recommend.LocateNeighborhood(candidates, inside); got == nil || got.ID != "allen" {
		t.Errorf("inside point located %+v, want allen", got)
	}

	outside := location.Coordinates{Latitude: 6.70, Longitude: 3.50}
	if got := recommend.LocateNeighborhood(candidates, outside); got != nil {
		t.Errorf("outside point located %+v, want nil", got)
	}
}

func TestSearchByName_PrefixThenFuzzy(t *testing.T) {
	candidates := []location.Neighborhood{
		{ID: "omole", Name: "Omole Phase 1"},
		{ID: "allen", Name: "Allen Avenue"},
		{ID: "ikate", Name: "Ikate Elegushi"},
	}

	matches := recommend.SearchByName(candidates, "omole", 10)
	if len(matches) == 0 || matches[0].Neighborhood.ID != "omole" {
		t.Fatalf("prefix query: got %+v, want omole first", matches)
	}
	if matches[0].Distance != 0 {
		t.Errorf("prefix match distance = %d, want 0", matches[0].Distance)
	}

	// One typo still finds the name.
	matches = recommend.SearchByName(candidates, "ikatte elegushi", 10)
	if len(matches) == 0 || matches[0].Neighborhood.ID != "ikate" {
		t.Errorf("fuzzy query: got %+v, want ikate", matches)
	}

	if got := recommend.SearchByName(candidates, "   ", 10); got != nil {
		t.Errorf("blank query should return nil, got %+v", got)
	}
}
