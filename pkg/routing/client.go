package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/types"
)

// Client calls an OSRM-compatible routing service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a routing client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.WithComponent("routing"),
	}
}

// osrmResponse mirrors the OSRM /route/v1 JSON contract.
type osrmResponse struct {
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// Route fetches the driving path and travel time between two points.
// OSRM addresses coordinates as lon,lat pairs.
func (c *Client) Route(ctx context.Context, from, to types.GeoPoint) (*types.RouteResult, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create route request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("routing request failed")
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("routing service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode route response: %w", err)
	}
	if len(payload.Routes) == 0 {
		return nil, fmt.Errorf("routing service returned no routes")
	}

	route := payload.Routes[0]
	polyline := make([]types.GeoPoint, 0, len(route.Geometry.Coordinates))
	for _, pair := range route.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		polyline = append(polyline, types.GeoPoint{Lon: pair[0], Lat: pair[1]})
	}

	return &types.RouteResult{
		Polyline:     polyline,
		ETASeconds:   route.Duration,
		ComputedFrom: from,
		ComputedTo:   to,
		ComputedAt:   time.Now(),
	}, nil
}
