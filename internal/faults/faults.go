// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package faults defines the error taxonomy shared by the engine components.
//
// Every operation fails with exactly one of these error kinds. The HTTP layer
// maps kinds to status codes; internal callers branch with errors.As / errors.Is.
// Storage faults that are not attributable to caller input are wrapped with
// %w and surface as unclassified errors, never as one of these kinds.
package faults

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports every violated field of a request, not just the first.
type ValidationError struct {
	// Violations maps field name to a human-readable violation message.
	Violations map[string]string
}

// NewValidationError creates a ValidationError with the given violations.
func NewValidationError(violations map[string]string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Error implements the error interface. Fields are listed in sorted order so
// the message is deterministic.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Violations))
	for field := range e.Violations {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Violations[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError indicates a referenced id does not exist or is malformed.
type NotFoundError struct {
	Kind string // "event", "bookmark", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// NotFound creates a NotFoundError for the given object kind and id.
func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// ForbiddenError indicates the caller lacks the required role or ownership.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return "forbidden: " + e.Reason
}

// Forbidden creates a ForbiddenError with the given reason.
func Forbidden(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// InvalidTransitionError indicates a moderation state machine precondition
// was violated, e.g. approving an already-denied event.
type InvalidTransitionError struct {
	EventID string
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s for event %q", e.From, e.To, e.EventID)
}

// Sentinel errors for conditions that carry no structured payload.
var (
	// ErrCapacityExceeded rejects an RSVP join against a full event.
	ErrCapacityExceeded = errors.New("event capacity exceeded")

	// ErrConflict indicates the operation lost a concurrent-mutation race
	// and was not applied.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrUpstreamUnavailable indicates the external scorer failed. It is
	// always recoverable via the arithmetic fallback and must never reach
	// the API boundary.
	ErrUpstreamUnavailable = errors.New("upstream scorer unavailable")
)

// IsCallerFault reports whether the error is attributable to caller input
// (as opposed to an internal storage failure).
func IsCallerFault(err error) bool {
	var (
		ve *ValidationError
		nf *NotFoundError
		fb *ForbiddenError
		it *InvalidTransitionError
	)
	return errors.As(err, &ve) ||
		errors.As(err, &nf) ||
		errors.As(err, &fb) ||
		errors.As(err, &it) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrConflict)
}
