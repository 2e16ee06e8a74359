// Package notify refreshes the order-scoped notification list at a
// coarser cadence than the main telemetry poll.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/metrics"
	"github.com/teryaq/coldtrack/pkg/types"
)

// Source fetches the order-scoped notification list.
type Source interface {
	Notifications(ctx context.Context, nationalID, orderID string) ([]types.NotificationItem, error)
}

// Refresher caches the notification list for one order. It is polled
// at a coarser cadence than the main telemetry tick since alerts
// change infrequently. The list is replaced wholesale on success and
// retained on failure.
type Refresher struct {
	source     Source
	nationalID string
	orderID    string
	logger     zerolog.Logger

	mu    sync.RWMutex
	items []types.NotificationItem
}

// NewRefresher creates a refresher for one order.
func NewRefresher(source Source, nationalID, orderID string) *Refresher {
	return &Refresher{
		source:     source,
		nationalID: nationalID,
		orderID:    orderID,
		logger:     log.WithOrderID(orderID).With().Str("component", "notify").Logger(),
	}
}

// Refresh fetches the current list. On error the cached list is kept.
func (r *Refresher) Refresh(ctx context.Context) ([]types.NotificationItem, error) {
	items, err := r.source.Notifications(ctx, r.nationalID, r.orderID)
	if err != nil {
		metrics.NotificationRefreshesTotal.WithLabelValues("error").Inc()
		r.logger.Warn().Err(err).Msg("notification refresh failed, keeping cached list")
		return r.Items(), err
	}
	metrics.NotificationRefreshesTotal.WithLabelValues("success").Inc()

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return r.Items(), nil
}

// Items returns a copy of the cached list.
func (r *Refresher) Items() []types.NotificationItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]types.NotificationItem(nil), r.items...)
}
