package cache

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
)

// Projector runs projections through a cache. A nil cache, or any cache
// failure, falls back to computing the schedule directly.
type Projector struct {
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewProjector wraps cache (which may be nil).
func NewProjector(c Cache, ttl time.Duration, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{cache: c, ttl: ttl, logger: logger}
}

// Project returns the schedule for the inputs, reusing a cached one if present.
// The boolean reports a cache hit.
func (p *Projector) Project(ctx context.Context, snapshot household.Snapshot, opts payoff.Options, anchor time.Time) (payoff.Schedule, bool) {
	if p == nil || p.cache == nil {
		return payoff.ProjectWithFixedTime(snapshot, opts, anchor), false
	}

	key, err := Key(snapshot, opts, anchor)
	if err != nil {
		p.logger.Warn("unable to key projection",
			zap.String("op", "cache.project"),
			zap.Error(err),
		)
		return payoff.ProjectWithFixedTime(snapshot, opts, anchor), false
	}

	raw, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		var schedule payoff.Schedule
		if err := json.Unmarshal(raw, &schedule); err == nil {
			p.logger.Debug("projection cache hit",
				zap.String("op", "cache.project"),
				zap.String("key", key),
			)
			return schedule, true
		}
		p.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "cache.project"),
			zap.String("key", key),
		)
	case !errors.Is(err, ErrMiss):
		p.logger.Warn("projection cache unavailable",
			zap.String("op", "cache.project"),
			zap.Error(err),
		)
	}

	schedule := payoff.ProjectWithFixedTime(snapshot, opts, anchor)

	encoded, err := json.Marshal(schedule)
	if err != nil {
		p.logger.Warn("unable to encode schedule", zap.String("op", "cache.project"), zap.Error(err))
		return schedule, false
	}
	if err := p.cache.Set(ctx, key, encoded, p.ttl); err != nil {
		p.logger.Warn("unable to store projection",
			zap.String("op", "cache.project"),
			zap.Error(err),
		)
	}
	return schedule, false
}
