package excursion

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/metrics"
	"github.com/teryaq/coldtrack/pkg/storage"
	"github.com/teryaq/coldtrack/pkg/types"
)

// Tracker is the per-order excursion state machine. It derives
// in/out-of-range status from observed temperatures, accumulates
// wall-clock excursion time while out of range, and persists its
// state so a crash or process suspension never loses the countdown.
//
// Methods are safe for concurrent use; in practice the poll tick
// calls Observe and the countdown tick calls Tick.
type Tracker struct {
	orderID string
	store   storage.Store
	logger  zerolog.Logger

	mu          sync.Mutex
	inExcursion bool
	elapsed     time.Duration
	lastTick    time.Time
	budget      *types.StabilityConfig

	now func() time.Time
}

// NewTracker creates a tracker for one order backed by the given store.
func NewTracker(store storage.Store, orderID string) *Tracker {
	return &Tracker{
		orderID: orderID,
		store:   store,
		logger:  log.WithOrderID(orderID).With().Str("component", "excursion").Logger(),
		now:     time.Now,
	}
}

// Rehydrate loads persisted state. If the process stopped while an
// excursion was running, the time lost between the last persist and
// now is added to the elapsed total before the countdown resumes.
func (t *Tracker) Rehydrate() error {
	state, err := storage.LoadExcursionState(t.store, t.orderID)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.elapsed = time.Duration(state.ElapsedSeconds) * time.Second
	t.inExcursion = state.InExcursion
	if state.InExcursion {
		savedAt := time.UnixMilli(state.SavedAt)
		if gap := now.Sub(savedAt); gap > 0 {
			t.elapsed += gap
		}
		t.lastTick = now
		t.logger.Info().
			Int64("elapsed_seconds", int64(t.elapsed/time.Second)).
			Msg("resumed excursion countdown after restart")
	}
	return nil
}

// SetBudget records the stability budget fetched once per session.
// A nil budget means remaining stability is unavailable.
func (t *Tracker) SetBudget(cfg *types.StabilityConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.budget = cfg
}

// Observe classifies a fresh temperature reading and drives the
// Normal/Excursion transitions. State is persisted immediately on
// every transition so a crash mid-excursion keeps the boundary.
func (t *Tracker) Observe(temperatureC float64, allowed types.TemperatureRange) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	inRange := allowed.Contains(temperatureC)
	switch {
	case !inRange && !t.inExcursion:
		t.inExcursion = true
		t.lastTick = t.now()
		metrics.ExcursionTransitionsTotal.WithLabelValues("started").Inc()
		t.logger.Warn().
			Float64("temperature_c", temperatureC).
			Float64("min_c", allowed.MinC).
			Float64("max_c", allowed.MaxC).
			Msg("temperature excursion started")
		return t.persistLocked()

	case inRange && t.inExcursion:
		t.inExcursion = false
		metrics.ExcursionTransitionsTotal.WithLabelValues("ended").Inc()
		t.logger.Info().
			Float64("temperature_c", temperatureC).
			Int64("elapsed_seconds", int64(t.elapsed/time.Second)).
			Msg("temperature back in range")
		return t.persistLocked()
	}
	return nil
}

// Tick advances the countdown by the actual wall-clock delta since
// the previous tick, tolerating scheduler delay and missed ticks.
// No-op while not in excursion.
func (t *Tracker) Tick() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inExcursion {
		return nil
	}

	now := t.now()
	if delta := now.Sub(t.lastTick); delta > 0 {
		t.elapsed += delta
	}
	t.lastTick = now
	metrics.ExcursionElapsedSeconds.WithLabelValues(t.orderID).Set(float64(t.elapsed / time.Second))
	return t.persistLocked()
}

// persistLocked writes current state; callers hold t.mu.
func (t *Tracker) persistLocked() error {
	state := &types.ExcursionState{
		ElapsedSeconds: int64(t.elapsed / time.Second),
		InExcursion:    t.inExcursion,
		SavedAt:        t.now().UnixMilli(),
	}
	return storage.SaveExcursionState(t.store, t.orderID, state)
}

// InExcursion reports whether the order is currently out of range.
func (t *Tracker) InExcursion() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inExcursion
}

// ElapsedSeconds returns the accumulated excursion time.
func (t *Tracker) ElapsedSeconds() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(t.elapsed / time.Second)
}

// RemainingSeconds returns the remaining stability budget, clamped at
// zero, or nil when no budget is configured.
func (t *Tracker) RemainingSeconds() *int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.budget == nil {
		return nil
	}
	remaining := t.budget.MaxExcursionSeconds - int64(t.elapsed/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// BudgetExceeded reports whether the accumulated excursion time has
// consumed the whole stability budget. Always false without a budget.
func (t *Tracker) BudgetExceeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.budget != nil && int64(t.elapsed/time.Second) >= t.budget.MaxExcursionSeconds
}

// FormatRemaining renders a second count as "1h 5m 30s", dropping
// zero components; zero renders as "0s".
func FormatRemaining(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}
