package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teryaq/coldtrack/pkg/types"
)

func TestRoute_ParsesOSRMResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		// OSRM orders coordinates lon,lat and the origin comes first.
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/36.2765") {
			t.Errorf("expected lon-first coordinates, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("geometries") != "geojson" {
			t.Errorf("geometries = %q, want geojson", r.URL.Query().Get("geometries"))
		}
		_, _ = w.Write([]byte(`{
			"routes": [{
				"geometry": {"coordinates": [[36.2765, 33.5138], [36.2800, 33.5120], [36.2913, 33.5102]]},
				"duration": 485.3
			}]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	from := types.GeoPoint{Lat: 33.5138, Lon: 36.2765}
	to := types.GeoPoint{Lat: 33.5102, Lon: 36.2913}

	result, err := c.Route(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if len(result.Polyline) != 3 {
		t.Fatalf("len(Polyline) = %d, want 3", len(result.Polyline))
	}
	if result.Polyline[0].Lat != 33.5138 || result.Polyline[0].Lon != 36.2765 {
		t.Errorf("Polyline[0] = %+v, want lat/lon swapped back from geojson", result.Polyline[0])
	}
	if result.ETASeconds != 485.3 {
		t.Errorf("ETASeconds = %v, want 485.3", result.ETASeconds)
	}
	if result.ComputedFrom != from || result.ComputedTo != to {
		t.Errorf("endpoints not recorded: from=%v to=%v", result.ComputedFrom, result.ComputedTo)
	}
}

func TestRoute_EmptyRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes": []}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	_, err := c.Route(context.Background(), types.GeoPoint{}, types.GeoPoint{})
	if err == nil {
		t.Fatal("expected error for empty routes")
	}
}
