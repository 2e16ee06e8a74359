/*
Package session owns the lifecycle of one live order-tracking session.

A Session reconciles three independently failing, independently paced
data sources into a single renderable snapshot:

	┌──────────────────── TRACKING SESSION ────────────────────┐
	│                                                           │
	│   poll tick (2s)                countdown tick (1s)       │
	│        │                               │                  │
	│        ▼                               ▼                  │
	│   telemetry.Poller ──▶ excursion.Tracker ◀── storage      │
	│        │                               │                  │
	│        ├─▶ routing.Calculator          │                  │
	│        ├─▶ notify.Refresher (every 5th tick)              │
	│        ▼                               ▼                  │
	│   TrackingViewState rebuild ──▶ events.Broker ──▶ UI      │
	│                                                           │
	└───────────────────────────────────────────────────────────┘

The two loops are scheduled separately because their natural cadences
differ: a slow network poll must never stall the countdown's
second-resolution accuracy. A busy flag skips poll ticks that arrive
while the previous one is still in flight, bounding concurrent network
load to one poll per order.

Every component failure is soft: the last known good value stays on
the view state and a one-line SoftError is surfaced for a non-blocking
banner, cleared on the next clean tick. The only fatal condition is an
empty order ID at session creation.

Stop cancels both loops synchronously and is idempotent; persisted
excursion state outlives the session and is picked up by the next one.
*/
package session
