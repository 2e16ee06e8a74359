package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/teryaq/coldtrack/pkg/types"
)

type fakeSource struct {
	snapshots []*types.TelemetrySnapshot
	errs      []error
	calls     int
}

func (f *fakeSource) LiveTelemetry(ctx context.Context, orderID string) (*types.TelemetrySnapshot, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.snapshots[i], nil
}

func floatPtr(v float64) *float64 { return &v }

func TestPoll_PartialResponseKeepsKnownValues(t *testing.T) {
	full := &types.TelemetrySnapshot{
		DriverPosition: &types.GeoPoint{Lat: 33.5, Lon: 36.3},
		TemperatureC:   floatPtr(5.0),
		AllowedRange:   &types.TemperatureRange{MinC: 2, MaxC: 8},
	}
	// Second response omits GPS and temperature entirely.
	partial := &types.TelemetrySnapshot{
		AllowedRange: &types.TemperatureRange{MinC: 2, MaxC: 8},
	}

	p := NewPoller(&fakeSource{snapshots: []*types.TelemetrySnapshot{full, partial}}, "order-1", 8)

	if _, err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll() error: %v", err)
	}
	snap, err := p.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}

	if snap.DriverPosition == nil || snap.DriverPosition.Lat != 33.5 {
		t.Errorf("partial response cleared DriverPosition: %+v", snap.DriverPosition)
	}
	if snap.TemperatureC == nil || *snap.TemperatureC != 5.0 {
		t.Errorf("partial response cleared TemperatureC: %v", snap.TemperatureC)
	}
}

func TestPoll_JitterSuppression(t *testing.T) {
	base := &types.GeoPoint{Lat: 33.5138, Lon: 36.2765}
	// ~5.5 m north: below the 8 m threshold.
	jitter := &types.GeoPoint{Lat: 33.5138 + 0.00005, Lon: 36.2765}
	// ~55 m north: a real move.
	moved := &types.GeoPoint{Lat: 33.5138 + 0.0005, Lon: 36.2765}

	p := NewPoller(&fakeSource{snapshots: []*types.TelemetrySnapshot{
		{DriverPosition: base},
		{DriverPosition: jitter},
		{DriverPosition: moved},
	}}, "order-1", 8)

	_, _ = p.Poll(context.Background())
	snap, _ := p.Poll(context.Background())
	if snap.DriverPosition.Lat != base.Lat {
		t.Errorf("jittery fix replaced accepted position: %+v", snap.DriverPosition)
	}

	snap, _ = p.Poll(context.Background())
	if snap.DriverPosition.Lat != moved.Lat {
		t.Errorf("real move was not accepted: %+v", snap.DriverPosition)
	}
}

func TestPoll_ErrorRetainsCache(t *testing.T) {
	full := &types.TelemetrySnapshot{
		DriverPosition: &types.GeoPoint{Lat: 33.5, Lon: 36.3},
		TemperatureC:   floatPtr(6.5),
	}
	src := &fakeSource{
		snapshots: []*types.TelemetrySnapshot{full, nil},
		errs:      []error{nil, errors.New("timeout")},
	}
	p := NewPoller(src, "order-1", 8)

	if _, err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll() error: %v", err)
	}
	snap, err := p.Poll(context.Background())
	if err == nil {
		t.Fatal("expected poll error")
	}
	if snap.TemperatureC == nil || *snap.TemperatureC != 6.5 {
		t.Errorf("failed poll cleared cache: %+v", snap)
	}
}
