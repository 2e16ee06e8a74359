/*
Package excursion tracks cold-chain temperature excursions for one
order.

An excursion is any period during which the cargo temperature lies
outside the allowed band supplied by the telemetry feed. The tracker
is a two-state machine (normal / excursion) whose countdown only runs
while out of range:

	            temp outside [min, max]
	  Normal ───────────────────────────▶ Excursion
	         ◀───────────────────────────
	            temp inside [min, max]

Elapsed excursion time accumulates by wall-clock deltas rather than
fixed tick lengths, so scheduler delays and app suspension cannot
undercount. State is persisted on every transition and every countdown
tick; on session start Rehydrate adds the wall-clock gap since the last
persist when the process died mid-excursion.

The stability budget (maximum tolerable cumulative excursion time) is
fetched once per session from the backend. When the fetch fails the
remaining stability is reported as unavailable, never as zero.
*/
package excursion
