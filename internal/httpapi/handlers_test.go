package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NeighborlyNG/location-core/internal/cache"
	"github.com/NeighborlyNG/location-core/internal/gateway"
	"github.com/NeighborlyNG/location-core/internal/httpapi"
	"github.com/NeighborlyNG/location-core/internal/location"
	"github.com/NeighborlyNG/location-core/internal/queue"
	"github.com/NeighborlyNG/location-core/internal/reachability"
	"github.com/NeighborlyNG/location-core/internal/recommend"
	"github.com/NeighborlyNG/location-core/internal/selection"
	"github.com/NeighborlyNG/location-core/internal/store"
)

// stubRemote serves fixed collections; mutations echo their input back.
type stubRemote struct {
	states        []location.State
	neighborhoods []location.Neighborhood
	createCalls   int
}

func (s *stubRemote) FetchStates(ctx context.Context) ([]location.State, error) {
	return s.states, nil
}
func (s *stubRemote) FetchLGAs(ctx context.Context) ([]location.LGA, error) { return nil, nil }
func (s *stubRemote) FetchWards(ctx context.Context) ([]location.Ward, error) {
	return nil, nil
}
func (s *stubRemote) FetchNeighborhoods(ctx context.Context) ([]location.Neighborhood, error) {
	return s.neighborhoods, nil
}
func (s *stubRemote) FetchLandmarks(ctx context.Context) ([]location.Landmark, error) {
	return nil, nil
}
func (s *stubRemote) FetchUserLocations(ctx context.Context) ([]location.UserLocation, error) {
	return nil, nil
}
func (s *stubRemote) CreateUserLocation(ctx context.Context, input location.UserLocationInput) (location.UserLocation, error) {
	s.createCalls++
	return location.UserLocation{ID: "srv-1", NeighborhoodID: input.NeighborhoodID}, nil
}
func (s *stubRemote) UpdateUserLocation(ctx context.Context, id string, input location.UserLocationInput) (location.UserLocation, error) {
	return location.UserLocation{ID: id}, nil
}
func (s *stubRemote) DeleteUserLocation(ctx context.Context, id string) error { return nil }
func (s *stubRemote) SetPrimary(ctx context.Context, id string) (location.UserLocation, error) {
	return location.UserLocation{ID: id, IsPrimary: true}, nil
}

func newServer(t *testing.T, online bool, remote *stubRemote) (*httptest.Server, *queue.Queue) {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemoryStore()
	c := cache.New(kv)
	q, err := queue.Load(ctx, kv)
	if err != nil {
		t.Fatalf("load queue: %v", err)
	}
	m := reachability.NewMonitor(reachability.StaticSource{Connected: online})
	gw := gateway.New(c, q, m, remote)
	tr, err := selection.Load(ctx, kv)
	if err != nil {
		t.Fatalf("load selection: %v", err)
	}

	h := &httpapi.Handler{
		Gateway:   gw,
		Selection: tr,
		Engine:    recommend.NewEngine(gw, tr),
		Monitor:   m,
	}
	srv := httptest.NewServer(h.SetupRoutes())
	t.Cleanup(srv.Close)
	return srv, q
}

func getJSON[T any](t *testing.T, url string) (int, location.Result[T]) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out location.Result[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode, out
}

func TestGetStates_OnlineAndOffline(t *testing.T) {
	remote := &stubRemote{states: []location.State{{ID: "st-lagos", Name: "Lagos"}}}
	srv, _ := newServer(t, true, remote)

	code, res := getJSON[[]location.State](t, srv.URL+"/states")
	if code != http.StatusOK || !res.Success || len(res.Data) != 1 {
		t.Fatalf("online states: code=%d res=%+v", code, res)
	}

	// Offline with an empty cache: typed failure, mapped to 503.
	offSrv, _ := newServer(t, false, &stubRemote{})
	code, res = getJSON[[]location.State](t, offSrv.URL+"/states")
	if code != http.StatusServiceUnavailable {
		t.Errorf("offline miss status = %d, want 503", code)
	}
	if res.Success || res.Code != location.ErrNetwork {
		t.Errorf("offline miss body = %+v", res)
	}
}

func TestCreateUserLocation_OfflineQueuesAndConnectivityDrains(t *testing.T) {
	remote := &stubRemote{}
	srv, q := newServer(t, false, remote)

	body := `{"state_id":"st-lagos","neighborhood_id":"nb-allen"}`
	resp, err := http.Post(srv.URL+"/user-locations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var res location.Result[location.UserLocation]
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	if !res.Success || res.Message != gateway.QueuedMessage {
		t.Fatalf("offline create = %+v", res)
	}
	if q.Length() != 1 {
		t.Fatalf("queue length = %d, want 1", q.Length())
	}

	// The development override flips connectivity; the transition drains.
	resp, err = http.Post(srv.URL+"/connectivity", "application/json", strings.NewReader(`{"online":true}`))
	if err != nil {
		t.Fatalf("post connectivity: %v", err)
	}
	resp.Body.Close()

	if q.Length() != 0 {
		t.Errorf("queue length after drain = %d, want 0", q.Length())
	}
	if remote.createCalls != 1 {
		t.Errorf("remote create calls = %d, want 1", remote.createCalls)
	}
}

func TestSelectionEndpoints_Cascade(t *testing.T) {
	srv, _ := newServer(t, true, &stubRemote{})

	put := func(body string) location.Result[selection.Selection] {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/selection", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("put selection: %v", err)
		}
		defer resp.Body.Close()
		var res location.Result[selection.Selection]
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return res
	}

	put(`{"field":"state","id":"st-lagos"}`)
	put(`{"field":"lga","id":"lga-ikeja"}`)
	put(`{"field":"ward","id":"wd-01"}`)
	res := put(`{"field":"state","id":"st-ogun"}`)

	if res.Data.StateID != "st-ogun" {
		t.Errorf("state = %q", res.Data.StateID)
	}
	if res.Data.LGAID != "" || res.Data.WardID != "" || res.Data.NeighborhoodID != "" {
		t.Errorf("descendants survived a state change: %+v", res.Data)
	}

	if bad := put(`{"field":"galaxy","id":"x"}`); bad.Success {
		t.Error("unknown field accepted")
	}
}

func TestRecommendEndpoint(t *testing.T) {
	remote := &stubRemote{neighborhoods: []location.Neighborhood{
		{
			ID: "nb-close", Type: location.NeighborhoodArea,
			Coordinates: &location.Coordinates{Latitude: 6.5280, Longitude: 3.3792},
		},
		{
			ID: "nb-far", Type: location.NeighborhoodArea,
			Coordinates: &location.Coordinates{Latitude: 7.5, Longitude: 4.5},
		},
	}}
	srv, _ := newServer(t, true, remote)

	code, res := getJSON[[]recommend.Recommendation](t, srv.URL+"/recommendations?lat=6.5244&lng=3.3792&radius=5000&limit=5")
	if code != http.StatusOK || !res.Success {
		t.Fatalf("recommend: code=%d res=%+v", code, res)
	}
	if len(res.Data) != 1 || res.Data[0].Neighborhood.ID != "nb-close" {
		t.Errorf("recommendations = %+v", res.Data)
	}

	// No coordinate anywhere: validation failure.
	code, _ = getJSON[[]recommend.Recommendation](t, srv.URL+"/recommendations")
	if code != http.StatusBadRequest {
		t.Errorf("missing coordinates status = %d, want 400", code)
	}

	code, _ = getJSON[[]recommend.Recommendation](t, srv.URL+"/recommendations?lat=abc&lng=3.3")
	if code != http.StatusBadRequest {
		t.Errorf("bad lat status = %d, want 400", code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newServer(t, true, &stubRemote{states: []location.State{{ID: "st-1"}}})

	// Populate one collection first.
	if code, _ := getJSON[[]location.State](t, srv.URL+"/states"); code != http.StatusOK {
		t.Fatal("prime failed")
	}

	code, res := getJSON[gateway.SyncStatus](t, srv.URL+"/status")
	if code != http.StatusOK || !res.Success {
		t.Fatalf("status: code=%d res=%+v", code, res)
	}
	if !res.Data.HasOfflineData || res.Data.CacheSize != 1 {
		t.Errorf("status = %+v", res.Data)
	}
	if res.Data.LastSyncTime.IsZero() {
		t.Error("last sync should be stamped after a successful fetch")
	}
}
