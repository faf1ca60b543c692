// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessageIsDeterministic(t *testing.T) {
	err := NewValidationError(map[string]string{
		"title":    "title is required",
		"capacity": "capacity must be at least 0",
		"end_time": "end_time must not be before start_time",
	})

	want := "validation failed: capacity: capacity must be at least 0; " +
		"end_time: end_time must not be before start_time; title: title is required"
	for i := 0; i < 10; i++ {
		if got := err.Error(); got != want {
			t.Fatalf("Error() = %q, want %q", got, want)
		}
	}
}

func TestValidationErrorEmpty(t *testing.T) {
	if got := (&ValidationError{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q, want %q", got, "validation failed")
	}
}

func TestIsCallerFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", NewValidationError(map[string]string{"f": "m"}), true},
		{"not found", NotFound("event", "e1"), true},
		{"forbidden", Forbidden("nope"), true},
		{"invalid transition", &InvalidTransitionError{EventID: "e1", From: "approved", To: "denied"}, true},
		{"capacity", ErrCapacityExceeded, true},
		{"wrapped capacity", fmt.Errorf("rsvp: %w", ErrCapacityExceeded), true},
		{"conflict", ErrConflict, true},
		{"upstream", ErrUpstreamUnavailable, false},
		{"generic", errors.New("disk on fire"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCallerFault(tt.err); got != tt.want {
				t.Errorf("IsCallerFault(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NotFound("event", "e1").Error(); got != `event "e1" not found` {
		t.Errorf("NotFound = %q", got)
	}
	if got := Forbidden("").Error(); got != "forbidden" {
		t.Errorf("Forbidden = %q", got)
	}
	transition := &InvalidTransitionError{EventID: "e1", From: "approved", To: "denied"}
	if got := transition.Error(); got != `invalid transition approved -> denied for event "e1"` {
		t.Errorf("InvalidTransition = %q", got)
	}
}
