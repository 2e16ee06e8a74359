/*
Package routing computes driver-to-destination routes through an
OSRM-compatible service, throttled for a mobile client.

A moving vehicle produces a new GPS fix every couple of seconds, but
recomputing the route that often is wasted network and battery. The
Calculator therefore skips recomputation unless a minimum interval
has passed since the last successful call and an endpoint actually
moved beyond the re-route threshold. Failures keep the last known
good route so the map never blanks mid-delivery.
*/
package routing
