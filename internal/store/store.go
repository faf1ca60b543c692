// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package store implements the EventStore: durable storage and referential
// integrity for events, bookmarks, and attendance.
//
// The store is the only shared mutable resource in the system. Every
// mutation runs inside a single Badger transaction, so the denormalized
// rsvp counter is recomputed in the same atomic unit as the attendee set
// and can never drift. Conflicting concurrent transactions are retried a
// bounded number of times; a retry re-evaluates all preconditions, which is
// how races settle to CapacityExceeded or InvalidTransition instead of
// silently overwriting.
//
// Status is written exclusively through TransitionStatus, which the
// moderation workflow calls; Update rejects any other status write.
package store

import (
	"context"
	"time"

	"github.com/campusunite/engine/internal/models"
)

// Listing limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// EventStore is the storage contract consumed by the API layer, the
// moderation workflow, and the ranking engine.
type EventStore interface {
	// Create validates the draft and stores a new event in status pending.
	// The caller must hold the organizer or admin role.
	Create(ctx context.Context, draft *models.EventDraft, organizer *models.UserProfile) (*models.Event, error)

	// Get returns the event or a NotFound fault.
	Get(ctx context.Context, eventID string) (*models.Event, error)

	// List returns events matching the filter, ordered by start time then
	// id. Callers without the reviewer or admin role only ever see
	// approved events; passing caller == nil bypasses the gate for
	// internal readers such as the ranking engine.
	List(ctx context.Context, filter models.ListFilter, caller *models.UserProfile) ([]models.Event, error)

	// Snapshot returns every approved event, ordered by start time then
	// id, read inside a single transaction so the caller sees one
	// consistent point-in-time view of the store.
	Snapshot(ctx context.Context) ([]models.Event, error)

	// Update applies a patch on behalf of the event's organizer or an
	// admin. Status is not patchable.
	Update(ctx context.Context, eventID string, patch *models.EventPatch, caller *models.UserProfile) (*models.Event, error)

	// Delete removes the event and cascades deletion of its bookmarks.
	Delete(ctx context.Context, eventID string, caller *models.UserProfile) error

	// RSVP toggles attendance. A join against a full event fails with
	// ErrCapacityExceeded; a leave always succeeds.
	RSVP(ctx context.Context, eventID, userID string) (joined bool, err error)

	// Bookmark and Unbookmark are idempotent set operations.
	Bookmark(ctx context.Context, eventID, userID string) error
	Unbookmark(ctx context.Context, eventID, userID string) error

	// TransitionStatus atomically moves an event from one status to
	// another and appends the moderation record. It is the only status
	// writer; the moderation workflow is its only caller.
	TransitionStatus(ctx context.Context, eventID string, from, to models.Status, rec *models.ModerationRecord) (*models.ModerationRecord, error)

	// ModerationHistory returns the event's records ordered by sequence
	// ascending.
	ModerationHistory(ctx context.Context, eventID string) ([]models.ModerationRecord, error)

	// Overview and DailyRSVPs serve the admin analytics reads.
	Overview(ctx context.Context) (*models.AnalyticsOverview, error)
	DailyRSVPs(ctx context.Context, since time.Time) ([]models.DailyRSVPStat, error)

	// UserEvents returns the events a user organizes, attends, and has
	// bookmarked.
	UserEvents(ctx context.Context, userID string) (*models.UserEvents, error)

	// Close releases the underlying database.
	Close() error
}
