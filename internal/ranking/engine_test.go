// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package ranking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/models"
	"github.com/campusunite/engine/internal/store"
)

var (
	organizer = &models.UserProfile{ID: "org-1", Role: models.RoleOrganizer}
	reviewer  = &models.UserProfile{ID: "rev-1", Role: models.RoleReviewer}
)

// failingScorer always errors, standing in for a dead external service.
type failingScorer struct{ calls int }

func (f *failingScorer) Score(context.Context, *models.UserProfile, *models.Event, time.Time) (float64, error) {
	f.calls++
	return 0, errors.New("upstream down")
}

func (f *failingScorer) Name() string { return "failing" }

func newTestEngine(t *testing.T, primary Scorer) (*Engine, *store.BadgerStore) {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	engine := NewEngine(s, primary, Config{DefaultK: 10, MaxK: 50})
	engine.SetClock(func() time.Time { return asOf })
	return engine, s
}

// seedEvent creates and approves an event with the given tags, start
// offset, and attendee count.
func seedEvent(t *testing.T, s *store.BadgerStore, tags []string, startIn time.Duration, attendees int) *models.Event {
	t.Helper()
	ctx := context.Background()
	start := asOf.Add(startIn)
	event, err := s.Create(ctx, &models.EventDraft{
		Title:       "Seeded Event",
		Description: "An event used in ranking tests.",
		Category:    "General",
		Tags:        tags,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}, organizer)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err = s.TransitionStatus(ctx, event.ID, models.StatusPending, models.StatusApproved,
		&models.ModerationRecord{ID: "rec-" + event.ID, ReviewerID: reviewer.ID})
	if err != nil {
		t.Fatalf("TransitionStatus() error = %v", err)
	}
	for i := 0; i < attendees; i++ {
		if _, err := s.RSVP(ctx, event.ID, fmt.Sprintf("a%02d", i)); err != nil {
			t.Fatalf("RSVP() error = %v", err)
		}
	}
	return event
}

func TestRecommendScenario(t *testing.T) {
	engine, s := newTestEngine(t, nil)
	profile := &models.UserProfile{ID: "u1", Role: models.RoleAttendee, Interests: []string{"Music", "Art"}}

	match := seedEvent(t, s, []string{"Music", "Art", "Photography"}, 72*time.Hour, 5)
	seedEvent(t, s, []string{"Sports"}, 72*time.Hour, 50) // zero relevance, excluded

	recs, err := engine.Recommend(context.Background(), profile, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Recommend() = %d results, want 1 (zero-scored events are absent)", len(recs))
	}
	if recs[0].Event.ID != match.ID {
		t.Errorf("result = %s, want %s", recs[0].Event.ID, match.ID)
	}
	if recs[0].Score != 38.5 {
		t.Errorf("Score = %v, want 38.5", recs[0].Score)
	}
	if len(recs[0].Reasons) == 0 {
		t.Error("result has no reasons")
	}
}

func TestRecommendExcludesPending(t *testing.T) {
	engine, s := newTestEngine(t, nil)
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music"}}

	// Created but never approved: invisible to ranking.
	ctx := context.Background()
	start := asOf.Add(24 * time.Hour)
	if _, err := s.Create(ctx, &models.EventDraft{
		Title:       "Unreviewed",
		Description: "Still pending moderation.",
		Category:    "Music",
		Tags:        []string{"Music"},
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}, organizer); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	recs, err := engine.Recommend(ctx, profile, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recommend() = %d results, want 0", len(recs))
	}
}

func TestRecommendOrderingAndTieBreak(t *testing.T) {
	engine, s := newTestEngine(t, nil)
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music"}}

	// Same score, different start: earlier start wins.
	later := seedEvent(t, s, []string{"Music"}, 48*time.Hour, 0)
	earlier := seedEvent(t, s, []string{"Music"}, 24*time.Hour, 0)
	// Higher score sorts first regardless of start.
	popular := seedEvent(t, s, []string{"Music"}, 72*time.Hour, 10)

	recs, err := engine.Recommend(context.Background(), profile, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Recommend() = %d results, want 3", len(recs))
	}
	wantOrder := []string{popular.ID, earlier.ID, later.ID}
	for i, want := range wantOrder {
		if recs[i].Event.ID != want {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].Event.ID, want)
		}
	}
}

func TestRecommendDeterminism(t *testing.T) {
	engine, s := newTestEngine(t, nil)
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music", "Art"}}

	seedEvent(t, s, []string{"Music"}, 24*time.Hour, 3)
	seedEvent(t, s, []string{"Art"}, 24*time.Hour, 3)
	seedEvent(t, s, []string{"Music", "Art"}, 96*time.Hour, 1)

	first, err := engine.Recommend(context.Background(), profile, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := engine.Recommend(context.Background(), profile, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Error("two identical calls produced different output")
	}
}

func TestRecommendKClamp(t *testing.T) {
	engine, s := newTestEngine(t, nil)
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music"}}

	for i := 0; i < 5; i++ {
		seedEvent(t, s, []string{"Music"}, time.Duration(i+1)*24*time.Hour, 0)
	}

	tests := []struct {
		k    int
		want int
	}{
		{k: 2, want: 2},
		{k: 0, want: 5},    // default k is 10, five candidates exist
		{k: 1000, want: 5}, // clamped to max, five candidates exist
	}
	for _, tt := range tests {
		recs, err := engine.Recommend(context.Background(), profile, tt.k)
		if err != nil {
			t.Fatalf("Recommend(k=%d) error = %v", tt.k, err)
		}
		if len(recs) != tt.want {
			t.Errorf("Recommend(k=%d) = %d results, want %d", tt.k, len(recs), tt.want)
		}
	}
}

func TestRecommendFallsBackOnScorerFailure(t *testing.T) {
	primary := &failingScorer{}
	engine, s := newTestEngine(t, primary)
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music"}}

	seedEvent(t, s, []string{"Music"}, 24*time.Hour, 2)

	recs, err := engine.Recommend(context.Background(), profile, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v, scorer failure must not fail the request", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Recommend() = %d results, want 1 from the arithmetic fallback", len(recs))
	}
	if primary.calls == 0 {
		t.Error("primary scorer was never tried")
	}
	// 10 (tag) + 9.5 (1 day) + 4 (2 attendees)
	if recs[0].Score != 23.5 {
		t.Errorf("fallback Score = %v, want 23.5", recs[0].Score)
	}
}

func TestRecommendRequiresProfile(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	if _, err := engine.Recommend(context.Background(), nil, 10); err == nil {
		t.Error("Recommend(nil profile) succeeded, want validation fault")
	}
}
