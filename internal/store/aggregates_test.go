// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package store

import (
	"context"
	"testing"
	"time"

	"github.com/campusunite/engine/internal/models"
)

func TestOverview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	music := mustCreate(t, s, testDraft(), organizer)
	mustApprove(t, s, music.ID)

	sportsDraft := testDraft()
	sportsDraft.Category = "Sports"
	sports := mustCreate(t, s, sportsDraft, organizer)
	mustApprove(t, s, sports.ID)

	mustCreate(t, s, testDraft(), organizer) // stays pending

	for _, userID := range []string{"u1", "u2"} {
		if _, err := s.RSVP(ctx, music.ID, userID); err != nil {
			t.Fatalf("RSVP() error = %v", err)
		}
	}
	if err := s.Bookmark(ctx, sports.ID, "u1"); err != nil {
		t.Fatalf("Bookmark() error = %v", err)
	}

	overview, err := s.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if overview.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", overview.TotalEvents)
	}
	if overview.EventsByStatus[models.StatusApproved] != 2 {
		t.Errorf("approved = %d, want 2", overview.EventsByStatus[models.StatusApproved])
	}
	if overview.EventsByStatus[models.StatusPending] != 1 {
		t.Errorf("pending = %d, want 1", overview.EventsByStatus[models.StatusPending])
	}
	if overview.TotalRSVPs != 2 {
		t.Errorf("TotalRSVPs = %d, want 2", overview.TotalRSVPs)
	}
	if overview.TotalBookmarks != 1 {
		t.Errorf("TotalBookmarks = %d, want 1", overview.TotalBookmarks)
	}

	// Music has two events (one pending) and the most RSVPs, so it leads
	// the category breakdown.
	if len(overview.Categories) == 0 || overview.Categories[0].Category != "Music" {
		t.Errorf("Categories = %+v, want Music first", overview.Categories)
	}
	if len(overview.TopOrganizers) != 1 || overview.TopOrganizers[0].OrganizerID != organizer.ID {
		t.Errorf("TopOrganizers = %+v, want just %s", overview.TopOrganizers, organizer.ID)
	}
	if overview.TopOrganizers[0].EventCount != 3 {
		t.Errorf("organizer EventCount = %d, want 3", overview.TopOrganizers[0].EventCount)
	}
}

func TestDailyRSVPs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	event := mustCreate(t, s, testDraft(), organizer)
	mustApprove(t, s, event.ID)
	for _, userID := range []string{"u1", "u2", "u3"} {
		if _, err := s.RSVP(ctx, event.ID, userID); err != nil {
			t.Fatalf("RSVP() error = %v", err)
		}
	}

	stats, err := s.DailyRSVPs(ctx, now.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("DailyRSVPs() error = %v", err)
	}

	// Three days inclusive, continuous series.
	if len(stats) != 3 {
		t.Fatalf("stats = %d days, want 3", len(stats))
	}
	if stats[0].Date != "2026-03-08" || stats[2].Date != "2026-03-10" {
		t.Errorf("series = [%s .. %s], want [2026-03-08 .. 2026-03-10]", stats[0].Date, stats[2].Date)
	}
	if stats[0].RSVPs != 0 || stats[1].RSVPs != 0 {
		t.Errorf("empty days = %d, %d, want 0, 0", stats[0].RSVPs, stats[1].RSVPs)
	}
	if stats[2].RSVPs != 3 {
		t.Errorf("creation day RSVPs = %d, want 3", stats[2].RSVPs)
	}
}

func TestUserEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mine := mustCreate(t, s, testDraft(), organizer)
	mustApprove(t, s, mine.ID)

	otherOrganizer := &models.UserProfile{ID: "org-2", Role: models.RoleOrganizer}
	theirs := mustCreate(t, s, testDraft(), otherOrganizer)
	mustApprove(t, s, theirs.ID)

	if _, err := s.RSVP(ctx, theirs.ID, organizer.ID); err != nil {
		t.Fatalf("RSVP() error = %v", err)
	}
	if err := s.Bookmark(ctx, theirs.ID, organizer.ID); err != nil {
		t.Fatalf("Bookmark() error = %v", err)
	}

	ue, err := s.UserEvents(ctx, organizer.ID)
	if err != nil {
		t.Fatalf("UserEvents() error = %v", err)
	}

	if len(ue.Organizing) != 1 || ue.Organizing[0].ID != mine.ID {
		t.Errorf("Organizing = %d events, want just %s", len(ue.Organizing), mine.ID)
	}
	if len(ue.Attending) != 1 || ue.Attending[0].ID != theirs.ID {
		t.Errorf("Attending = %d events, want just %s", len(ue.Attending), theirs.ID)
	}
	if len(ue.Bookmarked) != 1 || ue.Bookmarked[0].ID != theirs.ID {
		t.Errorf("Bookmarked = %d events, want just %s", len(ue.Bookmarked), theirs.ID)
	}

	t.Run("unknown user has empty lists", func(t *testing.T) {
		ue, err := s.UserEvents(ctx, "nobody")
		if err != nil {
			t.Fatalf("UserEvents() error = %v", err)
		}
		if len(ue.Organizing)+len(ue.Attending)+len(ue.Bookmarked) != 0 {
			t.Errorf("UserEvents(nobody) = %+v, want empty", ue)
		}
	})
}
