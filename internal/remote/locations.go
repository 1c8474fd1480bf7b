package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// FetchStates returns every state.
func (c *Client) FetchStates(ctx context.Context) ([]location.State, error) {
	raw, err := c.do(ctx, http.MethodGet, "/locations/states", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]location.State](raw)
}

// FetchLGAs returns every LGA. The service supports per-state filtering,
// but the cache is per-level, so the full collection is fetched and
// filtered client-side.
func (c *Client) FetchLGAs(ctx context.Context) ([]location.LGA, error) {
	raw, err := c.do(ctx, http.MethodGet, "/locations/lgas", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]location.LGA](raw)
}

// FetchWards returns every ward.
func (c *Client) FetchWards(ctx context.Context) ([]location.Ward, error) {
	raw, err := c.do(ctx, http.MethodGet, "/locations/wards", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]location.Ward](raw)
}

// FetchNeighborhoods returns every neighborhood.
func (c *Client) FetchNeighborhoods(ctx context.Context) ([]location.Neighborhood, error) {
	raw, err := c.do(ctx, http.MethodGet, "/locations/neighborhoods", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]location.Neighborhood](raw)
}

// FetchLandmarks returns every landmark.
func (c *Client) FetchLandmarks(ctx context.Context) ([]location.Landmark, error) {
	raw, err := c.do(ctx, http.MethodGet, "/locations/landmarks", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]location.Landmark](raw)
}

// FetchUserLocations returns the user's saved locations.
func (c *Client) FetchUserLocations(ctx context.Context) ([]location.UserLocation, error) {
	raw, err := c.do(ctx, http.MethodGet, "/locations/user-locations", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]location.UserLocation](raw)
}

// CreateUserLocation creates a saved location and returns the
// server-assigned record.
func (c *Client) CreateUserLocation(ctx context.Context, input location.UserLocationInput) (location.UserLocation, error) {
	raw, err := c.do(ctx, http.MethodPost, "/locations/user-locations", nil, input)
	if err != nil {
		return location.UserLocation{}, err
	}
	return decode[location.UserLocation](raw)
}

// UpdateUserLocation updates a saved location.
func (c *Client) UpdateUserLocation(ctx context.Context, id string, input location.UserLocationInput) (location.UserLocation, error) {
	raw, err := c.do(ctx, http.MethodPut, "/locations/user-locations/"+url.PathEscape(id), nil, input)
	if err != nil {
		return location.UserLocation{}, err
	}
	return decode[location.UserLocation](raw)
}

// DeleteUserLocation removes a saved location.
func (c *Client) DeleteUserLocation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/locations/user-locations/"+url.PathEscape(id), nil, nil)
	return err
}

// SetPrimary marks one saved location as the user's primary.
func (c *Client) SetPrimary(ctx context.Context, id string) (location.UserLocation, error) {
	raw, err := c.do(ctx, http.MethodPost, "/locations/user-locations/"+url.PathEscape(id)+"/primary", nil, nil)
	if err != nil {
		return location.UserLocation{}, err
	}
	return decode[location.UserLocation](raw)
}
