// Package telemetry polls the live GPS/temperature feed for an order
// and maintains the merged last-known-good snapshot cache.
package telemetry

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/geo"
	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/metrics"
	"github.com/teryaq/coldtrack/pkg/types"
)

// Source fetches one live telemetry snapshot for an order.
type Source interface {
	LiveTelemetry(ctx context.Context, orderID string) (*types.TelemetrySnapshot, error)
}

// Poller owns the merged last-known-good telemetry cache for one
// order. Poll is called once per scheduling tick; it never retries
// inline and never lets a partial response clear a cached value.
type Poller struct {
	source       Source
	orderID      string
	jitterMeters float64
	logger       zerolog.Logger

	mu       sync.RWMutex
	snapshot types.TelemetrySnapshot
}

// NewPoller creates a poller for one order. jitterMeters is the
// minimum movement required before a new GPS fix replaces the last
// accepted one.
func NewPoller(source Source, orderID string, jitterMeters float64) *Poller {
	return &Poller{
		source:       source,
		orderID:      orderID,
		jitterMeters: jitterMeters,
		logger:       log.WithOrderID(orderID).With().Str("component", "telemetry").Logger(),
	}
}

// Poll fetches a fresh snapshot and merges it into the cache. On
// error the cache is left untouched and the previous snapshot remains
// available via Snapshot.
func (p *Poller) Poll(ctx context.Context) (types.TelemetrySnapshot, error) {
	fresh, err := p.source.LiveTelemetry(ctx, p.orderID)
	if err != nil {
		metrics.PollsTotal.WithLabelValues("error").Inc()
		p.logger.Warn().Err(err).Msg("telemetry poll failed, keeping last snapshot")
		return p.Snapshot(), err
	}
	metrics.PollsTotal.WithLabelValues("success").Inc()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.merge(fresh)
	return cloneSnapshot(p.snapshot), nil
}

// merge applies a fresh snapshot onto the cache. Absent fields keep
// the cached value; GPS fixes under the jitter threshold keep the
// last accepted position.
func (p *Poller) merge(fresh *types.TelemetrySnapshot) {
	if fresh.DriverPosition != nil {
		if p.snapshot.DriverPosition == nil ||
			geo.MovedBeyond(*p.snapshot.DriverPosition, *fresh.DriverPosition, p.jitterMeters) {
			pos := *fresh.DriverPosition
			p.snapshot.DriverPosition = &pos
		}
	}
	if fresh.TemperatureC != nil {
		v := *fresh.TemperatureC
		p.snapshot.TemperatureC = &v
	}
	if fresh.AllowedRange != nil {
		r := *fresh.AllowedRange
		p.snapshot.AllowedRange = &r
	}
	p.snapshot.FetchedAt = fresh.FetchedAt
}

// Snapshot returns a copy of the merged cache.
func (p *Poller) Snapshot() types.TelemetrySnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneSnapshot(p.snapshot)
}

func cloneSnapshot(s types.TelemetrySnapshot) types.TelemetrySnapshot {
	out := s
	if s.DriverPosition != nil {
		pos := *s.DriverPosition
		out.DriverPosition = &pos
	}
	if s.TemperatureC != nil {
		v := *s.TemperatureC
		out.TemperatureC = &v
	}
	if s.AllowedRange != nil {
		r := *s.AllowedRange
		out.AllowedRange = &r
	}
	return out
}
