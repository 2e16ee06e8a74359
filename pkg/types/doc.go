/*
Package types defines the shared value types for coldtrack's live
order-tracking engine.

All tracking components are parameterized by an opaque order ID string
and exchange the types declared here: telemetry snapshots merged from
the live IoT feed, the persisted excursion countdown state, computed
route results, order notifications, and the single TrackingViewState
snapshot the UI binds to.

Optionality is expressed with pointer fields. A nil DriverPosition
means no GPS fix has ever been accepted for the session; components
must treat that as an explicit absent state rather than substituting a
default coordinate.
*/
package types
