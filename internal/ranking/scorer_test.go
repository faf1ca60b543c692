// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/campusunite/engine/internal/models"
)

var asOf = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func scoreOf(t *testing.T, profile *models.UserProfile, event *models.Event) float64 {
	t.Helper()
	score, err := NewDefaultScorer().Score(context.Background(), profile, event, asOf)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	return score
}

func TestDefaultScorer(t *testing.T) {
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music", "Art"}}

	tests := []struct {
		name  string
		event models.Event
		want  float64
	}{
		{
			// 10*2 (tags) + 10-1.5 (3 days out) + min(2*5,10) = 38.5
			name: "two shared tags three days out",
			event: models.Event{
				Tags:      []string{"Art", "Music", "Photography"},
				StartTime: asOf.Add(72 * time.Hour),
				Attendees: []string{"a", "b", "c", "d", "e"},
			},
			want: 38.5,
		},
		{
			name: "no overlap no urgency no crowd",
			event: models.Event{
				Tags:      []string{"Sports"},
				StartTime: asOf.Add(30 * 24 * time.Hour),
			},
			want: 0,
		},
		{
			// No shared tag zeroes the whole score: urgency and a big
			// crowd must not surface an unrelated event.
			name: "no overlap despite urgency and crowd",
			event: func() models.Event {
				e := models.Event{
					Tags:      []string{"Sports"},
					StartTime: asOf.Add(72 * time.Hour),
				}
				for i := 0; i < 50; i++ {
					e.Attendees = append(e.Attendees, "x")
				}
				return e
			}(),
			want: 0,
		},
		{
			// 10*3 + 15 bonus for breadth, starts now: +10, no attendees.
			name: "strong match bonus above two shared tags",
			event: models.Event{
				Tags:      []string{"Art", "Music", "Sculpture"},
				StartTime: asOf,
			},
			want: 0, // placeholder, set below
		},
	}
	// Breadth case: interests must cover three tags.
	tests[len(tests)-1].want = 10*3 + 15 + 10
	broad := &models.UserProfile{ID: "u2", Interests: []string{"Music", "Art", "Sculpture"}}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile
			if i == len(tests)-1 {
				p = broad
			}
			if got := scoreOf(t, p, &tt.event); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  float64
	}{
		{"starts now", asOf, 10},
		{"in the past", asOf.Add(-time.Hour), 0},
		{"three days out", asOf.Add(72 * time.Hour), 8.5},
		{"fourteen days out", asOf.Add(14 * 24 * time.Hour), 3},
		{"fifteen days out", asOf.Add(15 * 24 * time.Hour), 0},
		{"partial day rounds up", asOf.Add(60 * time.Hour), 8.5}, // 2.5 days -> 3
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recencyScore(tt.start, asOf); got != tt.want {
				t.Errorf("recencyScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPopularityCap(t *testing.T) {
	profile := &models.UserProfile{ID: "u1", Interests: []string{"Music"}}
	event := models.Event{
		Tags:      []string{"Music"},
		StartTime: asOf.Add(-time.Hour), // no recency component
	}
	for i := 0; i < 40; i++ {
		event.Attendees = append(event.Attendees, "x")
	}

	// 10 (tag) + 0 (past) + capped 10 (popularity), regardless of 40 attendees.
	if got := scoreOf(t, profile, &event); got != 20 {
		t.Errorf("Score() = %v, want 20", got)
	}
}

func TestSharedTagsCaseInsensitive(t *testing.T) {
	profile := &models.UserProfile{ID: "u1", Interests: []string{"music"}}
	event := models.Event{
		Tags:      []string{"Music"},
		StartTime: asOf.Add(-time.Hour),
	}
	if got := scoreOf(t, profile, &event); got != 10 {
		t.Errorf("Score() = %v, want 10 for case-insensitive match", got)
	}
}
