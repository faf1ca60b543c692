// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package models

import (
	"sort"
	"time"
)

// Status is the moderation lifecycle state of an event.
//
// pending is the initial state. approved and denied are terminal; no
// transition leaves them. Status is written exclusively by the moderation
// workflow.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// ValidStatuses lists all recognized status values, used for filter validation.
var ValidStatuses = []Status{StatusPending, StatusApproved, StatusDenied}

// IsValidStatus checks whether s is a recognized status value.
func IsValidStatus(s Status) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Mode describes how an event is attended.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

// IsValidMode checks whether m is a recognized mode value.
func IsValidMode(m Mode) bool {
	return m == ModeOnline || m == ModeOffline || m == ModeHybrid
}

// Location is an optional venue for offline and hybrid events.
type Location struct {
	Venue string `json:"venue,omitempty"`
	City  string `json:"city,omitempty"`
}

// Event represents a single campus activity.
//
// Only the organizer-of-record or an admin may patch the descriptive fields;
// Status is never patched directly. The RSVPCount field is denormalized and
// always recomputed from Attendees inside the same storage transaction that
// mutates the attendee set, so the two cannot drift.
type Event struct {
	// ID is an opaque unique identifier assigned at creation.
	ID string `json:"id"`

	// OrganizerID is the owning user's id.
	OrganizerID string `json:"organizer_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`

	// Tags is a deduplicated set of free-text tags. Order is irrelevant
	// for matching; it is stored sorted so serialized output is stable.
	Tags []string `json:"tags"`

	Mode     Mode     `json:"mode"`
	Location Location `json:"location"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Capacity limits the attendee set. Zero means unlimited.
	Capacity int `json:"capacity"`

	// Status is the moderation state. See ModerationRecord.
	Status Status `json:"status"`

	// Featured is admin-controlled and has no effect on ranking.
	Featured bool `json:"featured"`

	// Attendees is the set of user ids that have RSVPed, stored sorted.
	Attendees []string `json:"attendees"`

	// RSVPCount always equals len(Attendees).
	RSVPCount int `json:"rsvp_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAttendee reports whether userID is in the attendee set.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// AddAttendee inserts userID into the attendee set, keeping it sorted and
// deduplicated, and recomputes RSVPCount.
func (e *Event) AddAttendee(userID string) {
	if !e.HasAttendee(userID) {
		e.Attendees = append(e.Attendees, userID)
		sort.Strings(e.Attendees)
	}
	e.RSVPCount = len(e.Attendees)
}

// RemoveAttendee removes userID from the attendee set and recomputes RSVPCount.
func (e *Event) RemoveAttendee(userID string) {
	out := e.Attendees[:0]
	for _, id := range e.Attendees {
		if id != userID {
			out = append(out, id)
		}
	}
	e.Attendees = out
	e.RSVPCount = len(e.Attendees)
}

// AtCapacity reports whether a further join would exceed capacity.
// Capacity zero means unlimited and never reports true.
func (e *Event) AtCapacity() bool {
	return e.Capacity > 0 && len(e.Attendees) >= e.Capacity
}

// NormalizeTags deduplicates and sorts a tag list. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// EventDraft carries the caller-supplied fields for event creation.
// Validation tags are enforced by internal/validation; every violated field
// is reported, not just the first.
type EventDraft struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=5000"`
	Category    string    `json:"category" validate:"required,max=100"`
	Tags        []string  `json:"tags" validate:"max=25,dive,max=50"`
	Mode        Mode      `json:"mode" validate:"omitempty,eventmode"`
	Location    Location  `json:"location"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Capacity    int       `json:"capacity" validate:"min=0"`
}

// EventPatch carries the mutable fields of an update request. Nil fields are
// left unchanged. Status is deliberately absent: status changes only through
// the moderation workflow, and the API rejects raw patches that name it.
type EventPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags        *[]string  `json:"tags,omitempty" validate:"omitempty,max=25,dive,max=50"`
	Mode        *Mode      `json:"mode,omitempty" validate:"omitempty,eventmode"`
	Location    *Location  `json:"location,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,min=0"`

	// Featured may only be set by an admin.
	Featured *bool `json:"featured,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Tags == nil && p.Mode == nil && p.Location == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Capacity == nil &&
		p.Featured == nil
}

// ListFilter narrows event listings. Each present key matches exactly.
//
// Status defaults to approved for callers without the reviewer or admin role;
// the store enforces this server-side regardless of what the transport passed.
type ListFilter struct {
	Category    string `json:"category,omitempty"`
	Mode        Mode   `json:"mode,omitempty"`
	City        string `json:"city,omitempty"`
	Status      Status `json:"status,omitempty"`
	OrganizerID string `json:"organizer_id,omitempty"`

	// Offset and Limit paginate the start-time-ordered result. A zero Limit
	// applies the store default. The ordering (start time, then id) makes the
	// sequence restartable: the same filter and offset resume the same scan.
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

// Bookmark is a (user, event) pair. At most one bookmark exists per pair;
// creating a duplicate is a no-op success.
type Bookmark struct {
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}
