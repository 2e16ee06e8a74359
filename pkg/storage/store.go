package storage

import (
	"encoding/json"
	"fmt"

	"github.com/teryaq/coldtrack/pkg/types"
)

// Store defines the interface for durable key-value persistence of
// tracking state. Implementations must provide atomic single-key
// reads and writes; no multi-key transactions are required. The UI
// shell may substitute platform-native persistence (file, embedded KV
// store, mobile secure storage).
type Store interface {
	// Get returns the stored value for key. The second return value
	// is false when the key has never been written.
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// ExcursionStateKey returns the persistence key for an order's
// excursion countdown state.
func ExcursionStateKey(orderID string) string {
	return "excursion_state_" + orderID
}

// LoadExcursionState reads the persisted countdown state for an
// order. Returns (nil, nil) when no state has ever been saved.
func LoadExcursionState(s Store, orderID string) (*types.ExcursionState, error) {
	data, ok, err := s.Get(ExcursionStateKey(orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to read excursion state: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var state types.ExcursionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode excursion state: %w", err)
	}
	return &state, nil
}

// SaveExcursionState persists the countdown state for an order.
func SaveExcursionState(s Store, orderID string, state *types.ExcursionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode excursion state: %w", err)
	}
	if err := s.Put(ExcursionStateKey(orderID), data); err != nil {
		return fmt.Errorf("failed to write excursion state: %w", err)
	}
	return nil
}
