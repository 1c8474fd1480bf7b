package recommend

import (
	"github.com/golang/geo/s2"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// LocateNeighborhood finds the neighborhood whose boundary polygon
// contains the point, or nil when no boundary matches. Neighborhoods
// without a usable polygon (fewer than three vertices) are skipped.
func LocateNeighborhood(candidates []location.Neighborhood, coord location.Coordinates) *location.Neighborhood {
	point := s2.PointFromLatLng(s2.LatLngFromDegrees(coord.Latitude, coord.Longitude))

	for i := range candidates {
		loop := boundaryLoop(candidates[i].Boundary)
		if loop == nil {
			continue
		}
		if loop.ContainsPoint(point) {
			return &candidates[i]
		}
	}
	return nil
}

// boundaryLoop builds a normalized s2 loop from a boundary polygon.
// Normalizing picks the interpretation enclosing the smaller area, so
// vertex winding order does not matter.
func boundaryLoop(boundary []location.Coordinates) *s2.Loop {
	if len(boundary) < 3 {
		return nil
	}
	points := make([]s2.Point, 0, len(boundary))
	for _, c := range boundary {
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(c.Latitude, c.Longitude)))
	}
	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop
}
