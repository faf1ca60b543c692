// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package moderation implements the reviewer workflow over pending
// events. Decisions are the only path that changes an event's status;
// each one appends an immutable record to the event's moderation trail.
package moderation

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/metrics"
	"github.com/campusunite/engine/internal/models"
	"github.com/campusunite/engine/internal/store"
)

// maxReasonLength bounds free-text denial reasons.
const maxReasonLength = 1000

// Workflow coordinates moderation decisions against the event store.
type Workflow struct {
	store store.EventStore
	newID func() string
}

// NewWorkflow returns a workflow backed by the given store.
func NewWorkflow(s store.EventStore) *Workflow {
	return &Workflow{
		store: s,
		newID: func() string { return uuid.New().String() },
	}
}

// Approve moves a pending event to approved on behalf of the reviewer.
func (w *Workflow) Approve(ctx context.Context, eventID string, reviewer *models.UserProfile) (*models.ModerationRecord, error) {
	return w.decide(ctx, eventID, models.StatusApproved, "", reviewer)
}

// Deny moves a pending event to denied with an optional reason.
func (w *Workflow) Deny(ctx context.Context, eventID, reason string, reviewer *models.UserProfile) (*models.ModerationRecord, error) {
	if len(reason) > maxReasonLength {
		return nil, faults.NewValidationError(map[string]string{
			"reason": "must be at most 1000 characters",
		})
	}
	return w.decide(ctx, eventID, models.StatusDenied, reason, reviewer)
}

func (w *Workflow) decide(ctx context.Context, eventID string, to models.Status, reason string, reviewer *models.UserProfile) (*models.ModerationRecord, error) {
	if reviewer == nil || !reviewer.CanModerate() {
		return nil, faults.Forbidden("moderation requires the reviewer or admin role")
	}

	rec := &models.ModerationRecord{
		ID:           w.newID(),
		EventID:      eventID,
		NewStatus:    to,
		ReviewerID:   reviewer.ID,
		ReviewerName: reviewer.Name,
		Reason:       reason,
	}

	stored, err := w.store.TransitionStatus(ctx, eventID, models.StatusPending, to, rec)
	if err != nil {
		return nil, err
	}

	metrics.RecordModerationDecision(string(to))
	logging.Ctx(ctx).Info().
		Str("event_id", eventID).
		Str("reviewer_id", reviewer.ID).
		Str("decision", string(to)).
		Msg("Moderation decision recorded")
	return stored, nil
}

// History returns an event's moderation trail, oldest first. Access
// control happens at the transport layer.
func (w *Workflow) History(ctx context.Context, eventID string) ([]models.ModerationRecord, error) {
	return w.store.ModerationHistory(ctx, eventID)
}
