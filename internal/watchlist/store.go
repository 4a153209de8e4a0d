package watchlist

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists the app state blob
type Store interface {
	// Load returns the saved state, or the default state when nothing
	// was saved yet or the saved blob fails the shape check.
	Load(ctx context.Context) (*AppState, error)

	// Save overwrites the saved state wholesale
	Save(ctx context.Context, state *AppState) error
}

// MemoryStore keeps the state in process — the mode without Postgres
type MemoryStore struct {
	mu   sync.RWMutex
	blob []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the saved state or the default
func (m *MemoryStore) Load(context.Context) (*AppState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.blob == nil {
		return DefaultState(), nil
	}

	var state AppState
	if err := json.Unmarshal(m.blob, &state); err != nil || !state.Valid() {
		return DefaultState(), nil
	}
	return &state, nil
}

// Save replaces the stored blob
func (m *MemoryStore) Save(_ context.Context, state *AppState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.blob = blob
	m.mu.Unlock()
	return nil
}
