// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package models

import "time"

// ModerationRecord is one entry of the append-only moderation audit trail.
//
// Entries are immutable once written. The current status of an event always
// equals the NewStatus of its most recent record, or pending if none exists.
type ModerationRecord struct {
	// ID is an opaque unique identifier for the record.
	ID string `json:"id"`

	// EventID is the event the transition applies to.
	EventID string `json:"event_id"`

	// PriorStatus is the status before the transition.
	PriorStatus Status `json:"prior_status"`

	// NewStatus is the status after the transition.
	NewStatus Status `json:"new_status"`

	// ReviewerID is the acting reviewer.
	ReviewerID string `json:"reviewer_id"`

	// ReviewerName is the reviewer's display name at decision time.
	ReviewerName string `json:"reviewer_name,omitempty"`

	// Reason is optional free text, stored verbatim.
	Reason string `json:"reason,omitempty"`

	// Seq orders records within one event, starting at 1.
	Seq uint64 `json:"seq"`

	Timestamp time.Time `json:"timestamp"`
}
