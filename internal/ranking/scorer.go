// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package ranking

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/campusunite/engine/internal/models"
)

const (
	// tagWeight is the per-tag score for each interest overlap.
	tagWeight = 10.0
	// strongMatchBonus is added when more than strongMatchThreshold
	// tags overlap.
	strongMatchBonus    = 15.0
	strongMatchThreshold = 2
	// recencyWindowDays is the horizon beyond which an upcoming event
	// earns no urgency bonus.
	recencyWindowDays = 14
	// popularityCap limits the attendee contribution so a single large
	// event cannot dominate the feed.
	popularityCap    = 10.0
	popularityWeight = 2.0
)

// Scorer computes a relevance score between a user profile and a
// candidate event at a fixed point in time. Implementations must be
// side-effect-free and safe for concurrent use.
type Scorer interface {
	// Score returns the relevance of event for profile as of asOf.
	// A zero score means the event is irrelevant and will be dropped
	// from the result entirely.
	Score(ctx context.Context, profile *models.UserProfile, event *models.Event, asOf time.Time) (float64, error)

	// Name identifies the scorer in logs and result metadata.
	Name() string
}

// DefaultScorer is the built-in arithmetic model: tag overlap, urgency
// of an upcoming start time, and a capped popularity bonus. It is fully
// deterministic for a fixed asOf.
type DefaultScorer struct{}

// NewDefaultScorer returns the arithmetic scorer.
func NewDefaultScorer() *DefaultScorer {
	return &DefaultScorer{}
}

// Name implements Scorer.
func (s *DefaultScorer) Name() string { return "arithmetic" }

// Score implements Scorer. It never returns an error.
func (s *DefaultScorer) Score(_ context.Context, profile *models.UserProfile, event *models.Event, asOf time.Time) (float64, error) {
	b := breakdown(profile, event, asOf)
	return b.total(), nil
}

// scoreBreakdown carries the per-component scores used both for the
// total and for the human-readable reasons attached to each result.
type scoreBreakdown struct {
	shared     []string
	tagScore   float64
	recency    float64
	popularity float64
}

// total sums the components. An event sharing no tag with the profile
// is irrelevant and scores zero outright: urgency and popularity rank
// relevant events, they never make an unrelated event surface.
func (b scoreBreakdown) total() float64 {
	if len(b.shared) == 0 {
		return 0
	}
	return b.tagScore + b.recency + b.popularity
}

func breakdown(profile *models.UserProfile, event *models.Event, asOf time.Time) scoreBreakdown {
	var b scoreBreakdown

	b.shared = sharedTags(profile.Interests, event.Tags)
	b.tagScore = tagWeight * float64(len(b.shared))
	if len(b.shared) > strongMatchThreshold {
		b.tagScore += strongMatchBonus
	}
	b.recency = recencyScore(event.StartTime, asOf)
	b.popularity = math.Min(popularityWeight*float64(len(event.Attendees)), popularityCap)
	return b
}

// sharedTags returns the case-insensitive intersection of interests and
// tags, in sorted tag-set order. Tags are stored sorted and deduplicated
// so the result is deterministic.
func sharedTags(interests, tags []string) []string {
	if len(interests) == 0 || len(tags) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		want[strings.ToLower(interest)] = struct{}{}
	}
	var shared []string
	for _, tag := range tags {
		if _, ok := want[strings.ToLower(tag)]; ok {
			shared = append(shared, tag)
		}
	}
	return shared
}

// recencyScore rewards events starting soon: a linear decay from 10 at
// day zero to 0 at day fourteen. Past events and events beyond the
// window score zero.
func recencyScore(start, asOf time.Time) float64 {
	if start.Before(asOf) {
		return 0
	}
	days := math.Ceil(start.Sub(asOf).Hours() / 24)
	if days > recencyWindowDays {
		return 0
	}
	return 10 - days/2
}
