package types

import (
	"time"
)

// GeoPoint is an immutable geographic coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TemperatureRange is the allowed cold-chain band for an order.
// Bounds are inclusive: a reading equal to either bound is in range.
type TemperatureRange struct {
	MinC float64 `json:"min_c"`
	MaxC float64 `json:"max_c"`
}

// Contains reports whether t lies inside the allowed band.
func (r TemperatureRange) Contains(t float64) bool {
	return t >= r.MinC && t <= r.MaxC
}

// TelemetrySnapshot is one merged view of the live feed for an order.
// Pointer fields are nil until the backend has ever reported them; a
// partial payload never clears a previously known value.
type TelemetrySnapshot struct {
	DriverPosition *GeoPoint
	TemperatureC   *float64
	AllowedRange   *TemperatureRange
	FetchedAt      time.Time
}

// ExcursionState is the persisted countdown state for one order.
// SavedAt is epoch milliseconds so time lost while the process was
// suspended can be reconstructed on rehydration.
type ExcursionState struct {
	ElapsedSeconds int64 `json:"elapsed"`
	InExcursion    bool  `json:"in_excursion"`
	SavedAt        int64 `json:"saved_at"`
}

// StabilityConfig is the per-order cold-chain budget fetched once per
// tracking session.
type StabilityConfig struct {
	MaxExcursionSeconds int64
	MaxExcursionTempC   *float64
}

// RouteResult is the last successfully computed route between the
// driver and the destination.
type RouteResult struct {
	Polyline     []GeoPoint
	ETASeconds   float64
	ComputedFrom GeoPoint
	ComputedTo   GeoPoint
	ComputedAt   time.Time
}

// NotificationLevel classifies order notifications for display.
type NotificationLevel string

const (
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelWarning NotificationLevel = "warning"
	NotificationLevelDanger  NotificationLevel = "danger"
)

// NotificationItem is one order-scoped alert.
type NotificationItem struct {
	Title string
	Text  string
	Level NotificationLevel
}

// TrackingViewState is the single renderable snapshot exposed to the
// UI. It is rebuilt from cached component outputs on every tick; the
// view layer only reads it.
type TrackingViewState struct {
	OrderID   string
	SessionID string

	DriverPosition *GeoPoint
	Destination    *GeoPoint
	Markers        []GeoPoint
	Polyline       []GeoPoint

	TemperatureC     *float64
	TemperatureLabel string
	InExcursion      bool
	BudgetExceeded   bool

	ETASeconds *float64
	ETALabel   string

	RemainingStabilitySeconds *int64
	RemainingStabilityLabel   string

	Notifications []NotificationItem

	// SoftError is a non-blocking banner message; empty when the last
	// poll succeeded.
	SoftError string

	UpdatedAt time.Time
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *TrackingViewState) Clone() *TrackingViewState {
	if s == nil {
		return nil
	}
	out := *s
	if s.DriverPosition != nil {
		p := *s.DriverPosition
		out.DriverPosition = &p
	}
	if s.Destination != nil {
		p := *s.Destination
		out.Destination = &p
	}
	if s.TemperatureC != nil {
		v := *s.TemperatureC
		out.TemperatureC = &v
	}
	if s.ETASeconds != nil {
		v := *s.ETASeconds
		out.ETASeconds = &v
	}
	if s.RemainingStabilitySeconds != nil {
		v := *s.RemainingStabilitySeconds
		out.RemainingStabilitySeconds = &v
	}
	out.Markers = append([]GeoPoint(nil), s.Markers...)
	out.Polyline = append([]GeoPoint(nil), s.Polyline...)
	out.Notifications = append([]NotificationItem(nil), s.Notifications...)
	return &out
}
