package events

import (
	"sync"

	"github.com/teryaq/coldtrack/pkg/types"
)

// Subscriber is a channel that receives view-state snapshots
type Subscriber chan *types.TrackingViewState

// Broker distributes TrackingViewState snapshots from a tracking
// session to any number of view-layer subscribers. Publishing never
// blocks the session: a subscriber that falls behind misses
// intermediate snapshots, which is acceptable because every snapshot
// is a full rebuild rather than a delta.
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	stateCh     chan *types.TrackingViewState
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewBroker creates a new view-state broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		stateCh:     make(chan *types.TrackingViewState, 16),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker; safe to call more than once
func (b *Broker) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 8)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[sub] {
		delete(b.subscribers, sub)
		close(sub)
	}
}

// Publish hands a snapshot to the distribution loop
func (b *Broker) Publish(state *types.TrackingViewState) {
	select {
	case b.stateCh <- state:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case state := <-b.stateCh:
			b.broadcast(state)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(state *types.TrackingViewState) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- state:
		default:
			// Subscriber buffer full, skip
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
