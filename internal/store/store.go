// Package store persists the household snapshot between runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/debt-roadmap/internal/household"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("store is closed")

// Store loads and saves a whole household at a time. Save replaces whatever
// was stored before.
type Store interface {
	Load(ctx context.Context) (household.Snapshot, error)
	Save(ctx context.Context, snapshot household.Snapshot) error
	Ping(ctx context.Context) error
	Close() error
}

// New opens the store selected by driver ("sqlite" or "memory").
func New(driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return OpenSQLite(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// prepare copies the snapshot and gives every entry an id so rows can be keyed.
func prepare(snapshot household.Snapshot) household.Snapshot {
	prepared := snapshot.Clone()
	prepared.EnsureIDs()
	if prepared.Strategy == "" {
		prepared.Strategy = household.Avalanche
	}
	return prepared
}
