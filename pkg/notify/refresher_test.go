package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/teryaq/coldtrack/pkg/types"
)

type fakeNotificationSource struct {
	items []types.NotificationItem
	err   error
}

func (f *fakeNotificationSource) Notifications(ctx context.Context, nationalID, orderID string) ([]types.NotificationItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func TestRefresh_ReplacesWholesale(t *testing.T) {
	source := &fakeNotificationSource{items: []types.NotificationItem{{Text: "first"}}}
	r := NewRefresher(source, "0101234567", "order-1")

	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	source.items = []types.NotificationItem{{Text: "second"}, {Text: "third"}}
	items, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if len(items) != 2 || items[0].Text != "second" {
		t.Errorf("list not replaced wholesale: %+v", items)
	}
}

func TestRefresh_FailureRetainsList(t *testing.T) {
	source := &fakeNotificationSource{items: []types.NotificationItem{{Text: "kept"}}}
	r := NewRefresher(source, "0101234567", "order-1")

	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	source.err = errors.New("backend down")
	items, err := r.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if len(items) != 1 || items[0].Text != "kept" {
		t.Errorf("failed refresh should retain cached list, got %+v", items)
	}
	if got := r.Items(); len(got) != 1 {
		t.Errorf("Items() after failure = %+v, want cached list", got)
	}
}
