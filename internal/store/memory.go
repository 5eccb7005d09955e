package store

import (
	"context"
	"sync"

	"github.com/iwvelando/debt-roadmap/internal/household"
)

// Memory keeps the snapshot in process. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	snapshot household.Snapshot
	closed   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{snapshot: household.Snapshot{Strategy: household.Avalanche}}
}

// Load returns a copy of the stored snapshot.
func (m *Memory) Load(_ context.Context) (household.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return household.Snapshot{}, ErrClosed
	}
	return m.snapshot.Clone(), nil
}

// Save stores a copy of the snapshot.
func (m *Memory) Save(_ context.Context, snapshot household.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.snapshot = prepare(snapshot)
	return nil
}

// Ping reports whether the store is still open.
func (m *Memory) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
