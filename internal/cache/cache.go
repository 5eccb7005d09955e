// Package cache memoizes payoff schedules so repeated projections of the same
// household skip the simulation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache stores encoded schedules by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// New builds the cache named by driver: "none" (or blank) disables caching
// and returns nil, "memory" keeps entries in process, "redis" uses a server.
func New(driver, address, password string, db int) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		if address == "" {
			return nil, fmt.Errorf("redis cache needs an address")
		}
		return NewRedis(address, password, db), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", driver)
	}
}

type keyInput struct {
	Snapshot household.Snapshot
	Options  payoff.Options
	Anchor   string
}

// Key identifies a projection. Two calls with equal inputs in the same
// anchor month share a key.
func Key(snapshot household.Snapshot, opts payoff.Options, anchor time.Time) (string, error) {
	hash, err := hashstructure.Hash(keyInput{
		Snapshot: snapshot,
		Options:  opts,
		Anchor:   anchor.Format(constants.DateTimeLayout),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing projection inputs: %w", err)
	}
	return fmt.Sprintf("debt-roadmap:schedule:%016x", hash), nil
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis connects lazily to the server at addr.
func NewRedis(addr, password string, db int) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get returns the cached value or ErrMiss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores value for ttl; zero means no expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

// Get returns the cached value or ErrMiss. Expired entries are dropped.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, ErrMiss
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value for ttl; zero means no expiry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Len reports how many entries are held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
