package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the core's public contract on a chi router. The
// facade is a thin adapter: all semantics live in the gateway, selection
// tracker, and recommendation engine.
func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Hierarchy reads
	r.Get("/states", h.GetStates)
	r.Get("/states/{stateID}/lgas", h.GetLGAsByState)
	r.Get("/lgas/{lgaID}/wards", h.GetWardsByLGA)
	r.Get("/wards/{wardID}/neighborhoods", h.GetNeighborhoodsByWard)
	r.Get("/neighborhoods/{neighborhoodID}/landmarks", h.GetNearbyLandmarks)

	// User locations
	r.Get("/user-locations", h.GetUserLocations)
	r.Post("/user-locations", h.CreateUserLocation)
	r.Put("/user-locations/{id}", h.UpdateUserLocation)
	r.Delete("/user-locations/{id}", h.DeleteUserLocation)
	r.Post("/user-locations/{id}/primary", h.SetLocationAsPrimary)

	// Recommendation engine
	r.Get("/recommendations", h.Recommend)
	r.Get("/neighborhoods/search", h.SearchNeighborhoods)
	r.Get("/neighborhoods/locate", h.LocateNeighborhood)

	// Selection state
	r.Get("/selection", h.GetSelection)
	r.Put("/selection", h.UpdateSelection)
	r.Delete("/selection", h.ClearSelection)

	// Introspection and development aids
	r.Get("/status", h.Status)
	r.Post("/cache/clear", h.ClearCache)
	r.Post("/connectivity", h.SetConnectivity)

	return r
}
