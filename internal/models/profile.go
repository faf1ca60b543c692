// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package models

// Role constants define the capability roles in the system.
// A role grants an explicit set of operations (see internal/authz/policy.csv);
// there is no inheritance between roles.
const (
	// RoleAttendee can browse approved events, RSVP, bookmark, and request
	// recommendations.
	RoleAttendee = "attendee"

	// RoleOrganizer can additionally create, update, and delete own events.
	RoleOrganizer = "organizer"

	// RoleReviewer can additionally approve/deny pending events and read
	// moderation history, and may list events in any status.
	RoleReviewer = "reviewer"

	// RoleAdmin holds every capability, including analytics and the
	// featured flag.
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{RoleAttendee, RoleOrganizer, RoleReviewer, RoleAdmin}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// UserProfile represents a participant for authorization and ranking.
//
// It is supplied by the external identity provider on every call. The engine
// trusts it as already authenticated but independently re-checks the role
// before every mutating operation.
type UserProfile struct {
	// ID is an opaque unique identifier.
	ID string `json:"id"`

	// Name is a display name, carried into moderation records only.
	Name string `json:"name,omitempty"`

	// Role determines which operations are authorized.
	Role string `json:"role"`

	// Interests is the user's self-declared tag set (skills and hobbies
	// merged), deduplicated. Matching against event tags is order-independent.
	Interests []string `json:"interests"`
}

// CanModerate reports whether the profile's role may resolve pending events.
func (p *UserProfile) CanModerate() bool {
	return p.Role == RoleReviewer || p.Role == RoleAdmin
}

// CanSeeAllStatuses reports whether listings may include pending and denied
// events for this profile.
func (p *UserProfile) CanSeeAllStatuses() bool {
	return p.Role == RoleReviewer || p.Role == RoleAdmin
}

// IsAdmin reports whether the profile has the admin role.
func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
