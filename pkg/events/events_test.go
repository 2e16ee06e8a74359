package events

import (
	"testing"
	"time"

	"github.com/teryaq/coldtrack/pkg/types"
)

func TestBroker_PublishReachesSubscribers(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	if broker.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", broker.SubscriberCount())
	}

	broker.Publish(&types.TrackingViewState{OrderID: "order-1"})

	select {
	case state := <-sub:
		if state.OrderID != "order-1" {
			t.Errorf("received OrderID = %q, want order-1", state.OrderID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published snapshot")
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	broker.Unsubscribe(sub)

	if broker.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", broker.SubscriberCount())
	}
	// Channel is closed after unsubscribe.
	if _, ok := <-sub; ok {
		t.Error("expected closed channel after Unsubscribe")
	}
	// Unsubscribing twice must not panic.
	broker.Unsubscribe(sub)
}

func TestBroker_StopIsIdempotent(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	broker.Stop()
	broker.Stop()

	// Publishing after stop must not block.
	done := make(chan struct{})
	go func() {
		broker.Publish(&types.TrackingViewState{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Stop")
	}
}
