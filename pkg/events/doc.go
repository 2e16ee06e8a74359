/*
Package events provides the pub/sub channel between a tracking session
and the view layer.

A session publishes a fresh TrackingViewState after every tick; the UI
subscribes and renders whatever arrives. Delivery is non-blocking with
small per-subscriber buffers — a slow consumer drops intermediate
snapshots rather than stalling the session, and loses nothing because
each snapshot is complete.
*/
package events
