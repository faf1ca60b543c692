// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package ranking produces relevance-ordered event recommendations
// from the approved-event snapshot. The engine is read-only and safe
// for concurrent use with no synchronization of its own.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/metrics"
	"github.com/campusunite/engine/internal/models"
	"github.com/campusunite/engine/internal/store"
)

// Recommendation pairs an event with its relevance score and the
// reasons it ranked where it did.
type Recommendation struct {
	Event   models.Event `json:"event"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
}

// Config tunes the engine's result sizing.
type Config struct {
	// DefaultK is the result size when the caller does not ask for one.
	DefaultK int
	// MaxK caps the result size a caller may request.
	MaxK int
}

// DefaultEngineConfig returns the standard result sizing.
func DefaultEngineConfig() Config {
	return Config{DefaultK: 10, MaxK: 50}
}

// Engine scores the approved-event snapshot against a user profile.
// The primary scorer may be remote; the fallback is always the local
// arithmetic model and is used whenever the primary errors.
type Engine struct {
	store    store.EventStore
	primary  Scorer
	fallback *DefaultScorer
	cfg      Config
	now      func() time.Time
}

// NewEngine builds an engine over the given store. A nil primary
// scorer means the arithmetic model is used directly.
func NewEngine(s store.EventStore, primary Scorer, cfg Config) *Engine {
	fallback := NewDefaultScorer()
	if primary == nil {
		primary = fallback
	}
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = DefaultEngineConfig().DefaultK
	}
	if cfg.MaxK < cfg.DefaultK {
		cfg.MaxK = DefaultEngineConfig().MaxK
	}
	return &Engine{
		store:    s,
		primary:  primary,
		fallback: fallback,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetClock overrides the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Recommend returns up to k approved events ordered by relevance to
// the profile. Zero-scored events are absent, not last. k <= 0 selects
// the configured default; k above the configured maximum is clamped.
func (e *Engine) Recommend(ctx context.Context, profile *models.UserProfile, k int) ([]Recommendation, error) {
	if profile == nil {
		return nil, faults.NewValidationError(map[string]string{
			"profile": "a user profile is required",
		})
	}
	if k <= 0 {
		k = e.cfg.DefaultK
	}
	if k > e.cfg.MaxK {
		k = e.cfg.MaxK
	}

	started := time.Now()
	asOf := e.now()

	// One transactional read of the approved set so a concurrent
	// moderation decision never splits across the candidate scan.
	snapshot, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := e.rank(ctx, profile, snapshot, asOf, e.primary)
	if err != nil {
		// Any primary scorer failure degrades to the arithmetic
		// model rather than failing the request.
		logging.Ctx(ctx).Warn().Err(err).
			Str("scorer", e.primary.Name()).
			Msg("Primary scorer failed, falling back to arithmetic model")
		metrics.ScorerFallbacks.Inc()
		recs, err = e.rank(ctx, profile, snapshot, asOf, e.fallback)
		if err != nil {
			return nil, err
		}
	}

	if len(recs) > k {
		recs = recs[:k]
	}
	metrics.RecordRecommendation(time.Since(started))
	return recs, nil
}

// rank scores every candidate with the given scorer, drops zero scores,
// and orders the rest by score descending with a deterministic
// tie-break on start time then id.
func (e *Engine) rank(ctx context.Context, profile *models.UserProfile, events []models.Event, asOf time.Time, scorer Scorer) ([]Recommendation, error) {
	recs := make([]Recommendation, 0, len(events))
	for i := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		event := events[i]
		score, err := scorer.Score(ctx, profile, &event, asOf)
		if err != nil {
			return nil, err
		}
		if score <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Event:   event,
			Score:   score,
			Reasons: reasons(profile, &event, asOf),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if !recs[i].Event.StartTime.Equal(recs[j].Event.StartTime) {
			return recs[i].Event.StartTime.Before(recs[j].Event.StartTime)
		}
		return recs[i].Event.ID < recs[j].Event.ID
	})
	return recs, nil
}

// reasons renders the arithmetic breakdown as human-readable strings,
// independent of which scorer produced the ordering.
func reasons(profile *models.UserProfile, event *models.Event, asOf time.Time) []string {
	b := breakdown(profile, event, asOf)
	var out []string
	if len(b.shared) > 0 {
		out = append(out, fmt.Sprintf("matches your interests: %s", strings.Join(b.shared, ", ")))
	}
	if b.recency > 0 {
		out = append(out, "happening soon")
	}
	if b.popularity >= popularityCap {
		out = append(out, "popular on campus")
	} else if b.popularity > 0 {
		out = append(out, fmt.Sprintf("%d people are going", len(event.Attendees)))
	}
	return out
}
