package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Session metrics
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coldtrack_active_sessions",
			Help: "Number of currently running tracking sessions",
		},
	)

	PollTicksSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coldtrack_poll_ticks_skipped_total",
			Help: "Poll ticks skipped because the previous tick was still in flight",
		},
	)

	PollTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coldtrack_poll_tick_duration_seconds",
			Help:    "Duration of one full poll tick in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Telemetry metrics
	PollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldtrack_polls_total",
			Help: "Total telemetry polls by result",
		},
		[]string{"result"},
	)

	// Routing metrics
	RouteComputationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldtrack_route_computations_total",
			Help: "Total route computations by result",
		},
		[]string{"result"},
	)

	RouteThrottleSkips = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coldtrack_route_throttle_skips_total",
			Help: "Route recomputations skipped by interval or movement throttling",
		},
	)

	// Notification metrics
	NotificationRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldtrack_notification_refreshes_total",
			Help: "Total notification refreshes by result",
		},
		[]string{"result"},
	)

	// Excursion metrics
	ExcursionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coldtrack_excursion_transitions_total",
			Help: "Excursion state transitions by direction",
		},
		[]string{"direction"},
	)

	ExcursionElapsedSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coldtrack_excursion_elapsed_seconds",
			Help: "Accumulated excursion seconds per order",
		},
		[]string{"order_id"},
	)
)

func init() {
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(PollTicksSkipped)
	prometheus.MustRegister(PollTickDuration)
	prometheus.MustRegister(PollsTotal)
	prometheus.MustRegister(RouteComputationsTotal)
	prometheus.MustRegister(RouteThrottleSkips)
	prometheus.MustRegister(NotificationRefreshesTotal)
	prometheus.MustRegister(ExcursionTransitionsTotal)
	prometheus.MustRegister(ExcursionElapsedSeconds)
}

// Handler returns the Prometheus HTTP handler for the shell to mount
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed time for histogram observations
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in the given histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(t.Duration().Seconds())
}
