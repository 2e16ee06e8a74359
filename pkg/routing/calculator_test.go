package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teryaq/coldtrack/pkg/types"
)

type fakeRouteSource struct {
	calls int
	err   error
}

func (f *fakeRouteSource) Route(ctx context.Context, from, to types.GeoPoint) (*types.RouteResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &types.RouteResult{
		Polyline:     []types.GeoPoint{from, to},
		ETASeconds:   600,
		ComputedFrom: from,
		ComputedTo:   to,
		ComputedAt:   time.Now(),
	}, nil
}

var (
	origin = types.GeoPoint{Lat: 33.5138, Lon: 36.2765}
	dest   = types.GeoPoint{Lat: 33.5102, Lon: 36.2913}
)

// movedMeters returns origin shifted north by roughly the given meters.
func movedMeters(p types.GeoPoint, meters float64) types.GeoPoint {
	return types.GeoPoint{Lat: p.Lat + meters/111200.0, Lon: p.Lon}
}

func TestCompute_ThrottledByInterval(t *testing.T) {
	source := &fakeRouteSource{}
	calc := NewCalculator(source, 6*time.Second, 30)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	calc.now = func() time.Time { return now }

	if _, err := calc.Compute(context.Background(), origin, dest); err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	// Two seconds later, endpoints moved well beyond the threshold:
	// the interval throttle must still suppress the call.
	now = now.Add(2 * time.Second)
	far := movedMeters(origin, 100)
	if _, err := calc.Compute(context.Background(), far, dest); err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("source.calls = %d, want 1 (interval throttle)", source.calls)
	}
}

func TestCompute_ThrottledByMovement(t *testing.T) {
	source := &fakeRouteSource{}
	calc := NewCalculator(source, 6*time.Second, 30)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	calc.now = func() time.Time { return now }

	if _, err := calc.Compute(context.Background(), origin, dest); err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	// Interval elapsed but both endpoints moved under the threshold.
	now = now.Add(10 * time.Second)
	near := movedMeters(origin, 10)
	result, err := calc.Compute(context.Background(), near, dest)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("source.calls = %d, want 1 (movement throttle)", source.calls)
	}
	if result.ComputedFrom != origin {
		t.Errorf("throttled result should be the cached one, got from=%v", result.ComputedFrom)
	}

	// Interval elapsed and endpoint moved beyond threshold: recompute.
	now = now.Add(10 * time.Second)
	far := movedMeters(origin, 50)
	result, err = calc.Compute(context.Background(), far, dest)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("source.calls = %d, want 2", source.calls)
	}
	if result.ComputedFrom != far {
		t.Errorf("recomputed result not cached, got from=%v", result.ComputedFrom)
	}
}

func TestCompute_FailureRetainsLastKnownGood(t *testing.T) {
	source := &fakeRouteSource{}
	calc := NewCalculator(source, time.Second, 30)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	calc.now = func() time.Time { return now }

	good, err := calc.Compute(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	source.err = errors.New("routing service down")
	now = now.Add(10 * time.Second)
	far := movedMeters(origin, 50)

	result, err := calc.Compute(context.Background(), far, dest)
	if err == nil {
		t.Fatal("expected error from failed computation")
	}
	if result != good {
		t.Errorf("failed computation should return last known good result")
	}
	if calc.Last() != good {
		t.Errorf("Last() should still be the previous result after failure")
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{seconds: 0, want: "0m"},
		{seconds: -30, want: "0m"},
		{seconds: 59, want: "0m"},
		{seconds: 60, want: "1m"},
		{seconds: 720, want: "12m"},
		{seconds: 3900, want: "1h 5m"},
		{seconds: 7205, want: "2h 0m"},
	}

	for _, tt := range tests {
		if got := FormatETA(tt.seconds); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
