package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/geo"
	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/metrics"
	"github.com/teryaq/coldtrack/pkg/types"
)

// Source computes a route between two points.
type Source interface {
	Route(ctx context.Context, from, to types.GeoPoint) (*types.RouteResult, error)
}

// Calculator throttles route recomputation for one order. A new
// network call is only issued when the minimum interval since the
// last successful computation has passed and at least one endpoint
// moved beyond the re-route threshold. Failed calls retain the last
// known good result.
type Calculator struct {
	source      Source
	minInterval time.Duration
	moveMeters  float64
	logger      zerolog.Logger

	mu           sync.Mutex
	last         *types.RouteResult
	lastComputed time.Time

	now func() time.Time
}

// NewCalculator creates a throttled calculator over source.
func NewCalculator(source Source, minInterval time.Duration, moveMeters float64) *Calculator {
	return &Calculator{
		source:      source,
		minInterval: minInterval,
		moveMeters:  moveMeters,
		logger:      log.WithComponent("routing"),
		now:         time.Now,
	}
}

// Compute returns the route between from and to, recomputing only
// when the throttle allows. On failure the previous result is
// returned alongside the error so callers can keep rendering it.
func (c *Calculator) Compute(ctx context.Context, from, to types.GeoPoint) (*types.RouteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last != nil {
		if c.now().Sub(c.lastComputed) < c.minInterval {
			metrics.RouteThrottleSkips.Inc()
			return c.last, nil
		}
		if !geo.MovedBeyond(c.last.ComputedFrom, from, c.moveMeters) &&
			!geo.MovedBeyond(c.last.ComputedTo, to, c.moveMeters) {
			metrics.RouteThrottleSkips.Inc()
			return c.last, nil
		}
	}

	result, err := c.source.Route(ctx, from, to)
	if err != nil {
		metrics.RouteComputationsTotal.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Msg("route computation failed, keeping last result")
		return c.last, fmt.Errorf("failed to compute route: %w", err)
	}
	metrics.RouteComputationsTotal.WithLabelValues("success").Inc()

	c.last = result
	c.lastComputed = c.now()
	return c.last, nil
}

// Last returns the last successful result, or nil.
func (c *Calculator) Last() *types.RouteResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// FormatETA renders a duration in seconds as "1h 5m" or "12m".
// Zero, negative, and sub-minute durations render as "0m".
func FormatETA(seconds float64) string {
	totalMinutes := int64(seconds) / 60
	if totalMinutes <= 0 {
		return "0m"
	}

	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
