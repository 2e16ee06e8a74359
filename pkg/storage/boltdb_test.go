package storage

import (
	"testing"

	"github.com/teryaq/coldtrack/pkg/types"
)

func TestBoltStore_PutGetDelete(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := store.Put("k", []byte("v1")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	value, ok, err := store.Get("k")
	if err != nil || !ok || string(value) != "v1" {
		t.Errorf("Get(k) = %q ok=%v err=%v, want v1", value, ok, err)
	}

	// Upsert
	if err := store.Put("k", []byte("v2")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	value, _, _ = store.Get("k")
	if string(value) != "v2" {
		t.Errorf("Get(k) after upsert = %q, want v2", value)
	}

	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("Get(k) after delete should be absent")
	}

	// Deleting an absent key is not an error
	if err := store.Delete("k"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
}

func TestExcursionStateRoundTrip(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBoltStore() error: %v", err)
	}
	defer store.Close()

	// Absent state is (nil, nil)
	state, err := LoadExcursionState(store, "order-1")
	if err != nil || state != nil {
		t.Fatalf("LoadExcursionState(absent) = %v, %v, want nil, nil", state, err)
	}

	saved := &types.ExcursionState{ElapsedSeconds: 300, InExcursion: true, SavedAt: 1700000000000}
	if err := SaveExcursionState(store, "order-1", saved); err != nil {
		t.Fatalf("SaveExcursionState() error: %v", err)
	}

	state, err = LoadExcursionState(store, "order-1")
	if err != nil {
		t.Fatalf("LoadExcursionState() error: %v", err)
	}
	if state.ElapsedSeconds != 300 || !state.InExcursion || state.SavedAt != 1700000000000 {
		t.Errorf("LoadExcursionState() = %+v, want %+v", state, saved)
	}
}

func TestExcursionStateKey_ScopedPerOrder(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	if err := SaveExcursionState(store, "order-a", &types.ExcursionState{ElapsedSeconds: 10}); err != nil {
		t.Fatalf("SaveExcursionState() error: %v", err)
	}
	if err := SaveExcursionState(store, "order-b", &types.ExcursionState{ElapsedSeconds: 20}); err != nil {
		t.Fatalf("SaveExcursionState() error: %v", err)
	}

	a, _ := LoadExcursionState(store, "order-a")
	b, _ := LoadExcursionState(store, "order-b")
	if a.ElapsedSeconds != 10 || b.ElapsedSeconds != 20 {
		t.Errorf("per-order states collided: a=%+v b=%+v", a, b)
	}
}
