// Package httpapi exposes the location core to the app shell over a local
// HTTP facade. Read and write handlers translate the gateway's typed
// results onto the wire unchanged; a typed failure is a JSON body with
// success=false, never a 5xx from this layer.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NeighborlyNG/location-core/internal/gateway"
	"github.com/NeighborlyNG/location-core/internal/location"
	"github.com/NeighborlyNG/location-core/internal/reachability"
	"github.com/NeighborlyNG/location-core/internal/recommend"
	"github.com/NeighborlyNG/location-core/internal/selection"
)

// Handler carries the core services the facade adapts.
type Handler struct {
	Gateway   *gateway.Gateway
	Selection *selection.Tracker
	Engine    *recommend.Engine
	Monitor   *reachability.Monitor
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a typed failure onto an HTTP status for transport-aware
// clients. Success is always 200.
func statusFor(code location.ErrorCode) int {
	switch code {
	case location.ErrValidation:
		return http.StatusBadRequest
	case location.ErrPermissionDenied:
		return http.StatusForbidden
	case location.ErrLocationUnavailable:
		return http.StatusNotFound
	case location.ErrVerificationFailed:
		return http.StatusUnprocessableEntity
	case location.ErrNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeResult[T any](w http.ResponseWriter, res location.Result[T]) {
	if !res.Success {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusFor(res.Code))
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) GetStates(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.GetStates(r.Context()))
}

func (h *Handler) GetLGAsByState(w http.ResponseWriter, r *http.Request) {
	stateID := chi.URLParam(r, "stateID")

	var lgaType *location.LGAType
	if t := r.URL.Query().Get("type"); t != "" {
		lt := location.LGAType(t)
		if lt != location.LGATypeLGA && lt != location.LGATypeLCDA {
			writeResult(w, location.Fail[[]location.LGA](location.ErrValidation, "type must be LGA or LCDA"))
			return
		}
		lgaType = &lt
	}

	writeResult(w, h.Gateway.GetLGAsByState(r.Context(), stateID, lgaType))
}

func (h *Handler) GetWardsByLGA(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.GetWardsByLGA(r.Context(), chi.URLParam(r, "lgaID")))
}

func (h *Handler) GetNeighborhoodsByWard(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.GetNeighborhoodsByWard(r.Context(), chi.URLParam(r, "wardID")))
}

func (h *Handler) GetNearbyLandmarks(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.GetNearbyLandmarks(r.Context(), chi.URLParam(r, "neighborhoodID")))
}

func (h *Handler) GetUserLocations(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.GetUserLocations(r.Context()))
}

func (h *Handler) CreateUserLocation(w http.ResponseWriter, r *http.Request) {
	var input location.UserLocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeResult(w, location.Fail[location.UserLocation](location.ErrValidation, "invalid request body"))
		return
	}
	writeResult(w, h.Gateway.CreateUserLocation(r.Context(), input))
}

func (h *Handler) UpdateUserLocation(w http.ResponseWriter, r *http.Request) {
	var input location.UserLocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeResult(w, location.Fail[location.UserLocation](location.ErrValidation, "invalid request body"))
		return
	}
	writeResult(w, h.Gateway.UpdateUserLocation(r.Context(), chi.URLParam(r, "id"), input))
}

func (h *Handler) DeleteUserLocation(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.DeleteUserLocation(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) SetLocationAsPrimary(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Gateway.SetLocationAsPrimary(r.Context(), chi.URLParam(r, "id")))
}

// Recommend ranks neighborhoods near lat/lng (falling back to the current
// selection coordinate when omitted) within radius meters.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	radius := 5000.0
	if v := q.Get("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			writeResult(w, location.Fail[[]recommend.Recommendation](location.ErrValidation, "radius must be a positive number"))
			return
		}
		radius = parsed
	}

	limit := 20
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeResult(w, location.Fail[[]recommend.Recommendation](location.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr == "" && lngStr == "" {
		writeResult(w, h.Engine.Recommend(r.Context(), radius, limit))
		return
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		writeResult(w, location.Fail[[]recommend.Recommendation](location.ErrValidation, "lat and lng must be numbers"))
		return
	}

	coord := location.Coordinates{Latitude: lat, Longitude: lng}
	writeResult(w, h.Engine.RecommendAt(r.Context(), coord, radius, limit))
}

func (h *Handler) SearchNeighborhoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeResult(w, location.Fail[[]recommend.SearchMatch](location.ErrValidation, "q is required"))
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	writeResult(w, h.Engine.Search(r.Context(), query, limit))
}

func (h *Handler) LocateNeighborhood(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeResult(w, location.Fail[*location.Neighborhood](location.ErrValidation, "lat and lng must be numbers"))
		return
	}
	coord := location.Coordinates{Latitude: lat, Longitude: lng}
	writeResult(w, h.Engine.Locate(r.Context(), coord))
}

// selectionUpdate is the wire shape for PUT /selection: exactly one field
// per request, cascade applied by the reducer.
type selectionUpdate struct {
	Field       string                `json:"field"`
	ID          string                `json:"id,omitempty"`
	Coordinates *location.Coordinates `json:"coordinates,omitempty"`
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, location.OK(h.Selection.Current()))
}

func (h *Handler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var upd selectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeResult(w, location.Fail[selection.Selection](location.ErrValidation, "invalid request body"))
		return
	}

	field := selection.Field(upd.Field)
	switch field {
	case selection.FieldState, selection.FieldLGA, selection.FieldWard,
		selection.FieldNeighborhood, selection.FieldCoordinates:
	default:
		writeResult(w, location.Fail[selection.Selection](location.ErrValidation, "unknown selection field"))
		return
	}

	next, err := h.Selection.Update(r.Context(), selection.Change{
		Field:       field,
		ID:          upd.ID,
		Coordinates: upd.Coordinates,
	})
	if err != nil {
		writeResult(w, location.Fail[selection.Selection](location.ErrUnknown, err.Error()))
		return
	}
	writeJSON(w, location.OK(next))
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.Selection.Clear(r.Context()); err != nil {
		writeResult(w, location.Fail[selection.Selection](location.ErrUnknown, err.Error()))
		return
	}
	writeJSON(w, location.OK(selection.Selection{}))
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Gateway.Introspect(r.Context())
	if err != nil {
		writeResult(w, location.Fail[gateway.SyncStatus](location.ErrUnknown, err.Error()))
		return
	}
	writeJSON(w, location.OK(status))
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.ClearCache(r.Context()); err != nil {
		writeResult(w, location.Fail[struct{}](location.ErrUnknown, err.Error()))
		return
	}
	writeJSON(w, location.OK(struct{}{}))
}

// SetConnectivity is a development override feeding the monitor a
// connectivity reading, exercising the same transition path as the real
// source.
func (h *Handler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Online bool `json:"online"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResult(w, location.Fail[struct{}](location.ErrValidation, "invalid request body"))
		return
	}
	h.Monitor.Set(body.Online)
	writeJSON(w, location.OK(struct{}{}))
}
