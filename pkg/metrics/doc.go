/*
Package metrics declares coldtrack's Prometheus collectors.

Collectors are package variables registered once at init, following
the usual client_golang convention. The embedding shell can expose
them by mounting Handler() on any HTTP mux; the library itself never
opens a port.

Cardinality note: ExcursionElapsedSeconds is labeled by order ID,
which is bounded by the handful of orders a single client tracks in
one process, not by the backend's order population.
*/
package metrics
