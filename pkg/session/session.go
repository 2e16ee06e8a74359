package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/config"
	"github.com/teryaq/coldtrack/pkg/events"
	"github.com/teryaq/coldtrack/pkg/excursion"
	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/metrics"
	"github.com/teryaq/coldtrack/pkg/notify"
	"github.com/teryaq/coldtrack/pkg/routing"
	"github.com/teryaq/coldtrack/pkg/storage"
	"github.com/teryaq/coldtrack/pkg/telemetry"
	"github.com/teryaq/coldtrack/pkg/types"
)

// StabilitySource fetches the cold-chain budget for an order.
type StabilitySource interface {
	StabilityConfig(ctx context.Context, orderID string) (*types.StabilityConfig, error)
}

// Options wires a tracking session. OrderID and the four sources are
// required; zero Tracking fields fall back to the defaults.
type Options struct {
	OrderID    string
	NationalID string
	// Destination is the delivery target, when the order knows it.
	// Routes are only computed once both a driver fix and a
	// destination are known.
	Destination *types.GeoPoint

	Telemetry     telemetry.Source
	Stability     StabilitySource
	Notifications notify.Source
	Routes        routing.Source
	Store         storage.Store

	// Broker receives view-state snapshots; a private one is created
	// (and owned) when nil.
	Broker *events.Broker

	Tracking config.TrackingConfig
}

// Session owns one live tracking session for one order: the telemetry
// poll loop, the excursion countdown loop, and the merged view state
// the UI renders. Create with New, drive with Start/Stop.
type Session struct {
	id          string
	orderID     string
	destination *types.GeoPoint
	cfg         config.TrackingConfig
	logger      zerolog.Logger

	poller    *telemetry.Poller
	tracker   *excursion.Tracker
	routes    *routing.Calculator
	notes     *notify.Refresher
	stability StabilitySource
	broker    *events.Broker
	ownBroker bool

	mu        sync.RWMutex
	view      *types.TrackingViewState
	softError string

	// pollBusy is the re-entrancy guard: a tick that arrives while
	// the previous one is still in flight is skipped, not queued.
	pollBusy  atomic.Bool
	tickCount uint64

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New validates the options and assembles a session. An empty order
// ID fails session creation immediately; nothing is scheduled yet.
func New(opts Options) (*Session, error) {
	if opts.OrderID == "" {
		return nil, fmt.Errorf("order ID is empty")
	}
	if opts.Telemetry == nil || opts.Routes == nil || opts.Notifications == nil || opts.Stability == nil {
		return nil, fmt.Errorf("session requires telemetry, routing, notification, and stability sources")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session requires a store")
	}

	cfg := opts.Tracking
	def := config.Default().Tracking
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = def.CountdownInterval
	}
	if cfg.NotificationEvery <= 0 {
		cfg.NotificationEvery = def.NotificationEvery
	}
	if cfg.JitterMeters <= 0 {
		cfg.JitterMeters = def.JitterMeters
	}
	if cfg.RerouteMeters <= 0 {
		cfg.RerouteMeters = def.RerouteMeters
	}
	if cfg.RouteMinInterval <= 0 {
		cfg.RouteMinInterval = def.RouteMinInterval
	}

	id := uuid.New().String()
	s := &Session{
		id:        id,
		orderID:   opts.OrderID,
		cfg:       cfg,
		logger:    log.WithSessionID(id).With().Str("order_id", opts.OrderID).Logger(),
		poller:    telemetry.NewPoller(opts.Telemetry, opts.OrderID, cfg.JitterMeters),
		tracker:   excursion.NewTracker(opts.Store, opts.OrderID),
		routes:    routing.NewCalculator(opts.Routes, cfg.RouteMinInterval.Std(), cfg.RerouteMeters),
		notes:     notify.NewRefresher(opts.Notifications, opts.NationalID, opts.OrderID),
		stability: opts.Stability,
		broker:    opts.Broker,
		stopCh:    make(chan struct{}),
	}
	if opts.Destination != nil {
		dest := *opts.Destination
		s.destination = &dest
	}
	if s.broker == nil {
		s.broker = events.NewBroker()
		s.ownBroker = true
	}
	return s, nil
}

// ID returns the unique session ID.
func (s *Session) ID() string { return s.id }

// OrderID returns the tracked order's ID.
func (s *Session) OrderID() string { return s.orderID }

// Start rehydrates persisted excursion state, fetches the stability
// budget once, performs an initial poll, and launches the two
// periodic loops. It may be called once per session.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("session already started")
	}

	if err := s.tracker.Rehydrate(); err != nil {
		// A broken store must not prevent tracking; the countdown
		// restarts from zero instead.
		s.logger.Warn().Err(err).Msg("failed to rehydrate excursion state, starting fresh")
	}

	if budget, err := s.stability.StabilityConfig(ctx, s.orderID); err != nil {
		s.logger.Warn().Err(err).Msg("stability budget unavailable")
	} else {
		s.tracker.SetBudget(budget)
	}

	if s.ownBroker {
		s.broker.Start()
	}

	s.pollTick(ctx)

	s.wg.Add(2)
	go s.pollLoop(ctx)
	go s.countdownLoop(ctx)

	metrics.ActiveSessions.Inc()
	s.logger.Info().
		Dur("poll_interval", s.cfg.PollInterval.Std()).
		Dur("countdown_interval", s.cfg.CountdownInterval.Std()).
		Msg("tracking session started")
	return nil
}

// Stop synchronously cancels both loops. No tick handler runs after
// Stop returns; calling it again is a no-op.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		if s.ownBroker {
			s.broker.Stop()
		}
		if s.started.Load() {
			metrics.ActiveSessions.Dec()
		}
		s.logger.Info().Msg("tracking session stopped")
	})
}

// Subscribe returns a channel of view-state snapshots.
func (s *Session) Subscribe() events.Subscriber {
	return s.broker.Subscribe()
}

// Unsubscribe releases a subscription obtained from Subscribe.
func (s *Session) Unsubscribe(sub events.Subscriber) {
	s.broker.Unsubscribe(sub)
}

// Snapshot returns a copy of the latest view state, or nil before the
// session started.
func (s *Session) Snapshot() *types.TrackingViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Clone()
}

func (s *Session) pollLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.PollInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pollTick(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) countdownLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.CountdownInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.countdownTick()
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// pollTick runs one full reconciliation: telemetry, excursion
// classification, throttled route computation, periodic notification
// refresh, and a view-state rebuild from all cached outputs.
func (s *Session) pollTick(ctx context.Context) {
	if !s.pollBusy.CompareAndSwap(false, true) {
		metrics.PollTicksSkipped.Inc()
		s.logger.Debug().Msg("previous poll still in flight, skipping tick")
		return
	}
	defer s.pollBusy.Store(false)

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PollTickDuration)

	var softErr string

	snap, err := s.poller.Poll(ctx)
	if err != nil {
		softErr = "live telemetry unavailable"
	}

	if snap.TemperatureC != nil && snap.AllowedRange != nil {
		if err := s.tracker.Observe(*snap.TemperatureC, *snap.AllowedRange); err != nil {
			s.logger.Error().Err(err).Msg("failed to persist excursion transition")
		}
	}

	if snap.DriverPosition != nil && s.destination != nil {
		if _, err := s.routes.Compute(ctx, *snap.DriverPosition, *s.destination); err != nil && softErr == "" {
			softErr = "route refresh unavailable"
		}
	}

	if s.tickCount%uint64(s.cfg.NotificationEvery) == 0 {
		if _, err := s.notes.Refresh(ctx); err != nil && softErr == "" {
			softErr = "notifications unavailable"
		}
	}
	s.tickCount++

	s.mu.Lock()
	s.softError = softErr
	s.mu.Unlock()

	s.publish()
}

// countdownTick advances the excursion countdown independently of the
// poll cadence so a slow network call never stalls second-resolution
// accuracy.
func (s *Session) countdownTick() {
	inExcursion := s.tracker.InExcursion()
	if err := s.tracker.Tick(); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist excursion countdown")
	}
	if inExcursion {
		s.publish()
	}
}

// publish rebuilds the view state from all cached component outputs
// and hands it to subscribers.
func (s *Session) publish() {
	view := s.buildView()

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	s.broker.Publish(view.Clone())
}

func (s *Session) buildView() *types.TrackingViewState {
	snap := s.poller.Snapshot()

	s.mu.RLock()
	softErr := s.softError
	s.mu.RUnlock()

	view := &types.TrackingViewState{
		OrderID:     s.orderID,
		SessionID:   s.id,
		SoftError:   softErr,
		InExcursion: s.tracker.InExcursion(),
		UpdatedAt:   time.Now(),
	}

	view.DriverPosition = snap.DriverPosition
	if s.destination != nil {
		dest := *s.destination
		view.Destination = &dest
	}
	if view.DriverPosition != nil {
		view.Markers = append(view.Markers, *view.DriverPosition)
	}
	if view.Destination != nil {
		view.Markers = append(view.Markers, *view.Destination)
	}

	view.TemperatureC = snap.TemperatureC
	if snap.TemperatureC != nil {
		view.TemperatureLabel = fmt.Sprintf("%.1f°C", *snap.TemperatureC)
	} else {
		view.TemperatureLabel = "--"
	}

	if route := s.routes.Last(); route != nil {
		eta := route.ETASeconds
		view.ETASeconds = &eta
		view.ETALabel = routing.FormatETA(eta)
		view.Polyline = append([]types.GeoPoint(nil), route.Polyline...)
	} else {
		view.ETALabel = "--"
	}

	if remaining := s.tracker.RemainingSeconds(); remaining != nil {
		view.RemainingStabilitySeconds = remaining
		view.RemainingStabilityLabel = excursion.FormatRemaining(*remaining)
	} else {
		view.RemainingStabilityLabel = "--"
	}
	view.BudgetExceeded = s.tracker.BudgetExceeded()

	view.Notifications = s.notes.Items()
	return view
}
