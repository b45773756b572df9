package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
)

// Store keeps view states by session id. Load returns a fresh state for an
// unknown id.
type Store interface {
	Load(ctx context.Context, id string) (*ViewState, error)
	Save(ctx context.Context, id string, st *ViewState) error
}

// MemoryStore keeps encoded states in process memory, so callers never share
// a *ViewState.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*ViewState, error) {
	m.mu.RLock()
	data, ok := m.states[id]
	m.mu.RUnlock()
	if !ok {
		return New(), nil
	}
	return decode(data)
}

func (m *MemoryStore) Save(_ context.Context, id string, st *ViewState) error {
	data, err := sonic.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}

	m.mu.Lock()
	m.states[id] = data
	m.mu.Unlock()
	return nil
}

func decode(data []byte) (*ViewState, error) {
	st := New()
	if err := sonic.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to decode view state: %w", err)
	}
	return st, nil
}
