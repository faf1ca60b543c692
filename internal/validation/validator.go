// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package validation provides struct validation using go-playground/validator
// v10 behind a thread-safe singleton instance.
//
// Validation failures are translated into faults.ValidationError carrying a
// message for every violated field, never just the first one.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the singleton validator, creating it on first use.
// The singleton caches struct metadata, so reuse matters for throughput.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// eventmode accepts the recognized event attendance modes.
		_ = validate.RegisterValidation("eventmode", func(fl validator.FieldLevel) bool {
			return models.IsValidMode(models.Mode(fl.Field().String()))
		})
	})
	return validate
}

// ValidateStruct validates v and returns a faults.ValidationError listing
// every violated field, or nil when validation passes.
func ValidateStruct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validate: %w", invalid)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	violations := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations[fieldName(fe)] = describe(fe)
	}
	return faults.NewValidationError(violations)
}

// fieldName converts a validator namespace to a snake_case-ish field key.
// "EventDraft.StartTime" -> "start_time".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// describe renders a human-readable message for a single field error.
func describe(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "eventmode":
		return field + " must be one of online, offline, hybrid"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
