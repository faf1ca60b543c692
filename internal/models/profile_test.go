// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package models

import "testing"

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "superuser", "Attendee", "ADMIN"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}

func TestRoleCapabilityHelpers(t *testing.T) {
	tests := []struct {
		role        string
		canModerate bool
		seesAll     bool
		isAdmin     bool
	}{
		{RoleAttendee, false, false, false},
		{RoleOrganizer, false, false, false},
		{RoleReviewer, true, true, false},
		{RoleAdmin, true, true, true},
	}
	for _, tt := range tests {
		p := &UserProfile{ID: "u1", Role: tt.role}
		if got := p.CanModerate(); got != tt.canModerate {
			t.Errorf("%s: CanModerate() = %v, want %v", tt.role, got, tt.canModerate)
		}
		if got := p.CanSeeAllStatuses(); got != tt.seesAll {
			t.Errorf("%s: CanSeeAllStatuses() = %v, want %v", tt.role, got, tt.seesAll)
		}
		if got := p.IsAdmin(); got != tt.isAdmin {
			t.Errorf("%s: IsAdmin() = %v, want %v", tt.role, got, tt.isAdmin)
		}
	}
}
