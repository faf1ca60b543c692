// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package authz provides role-based authorization using Casbin. Roles
// are flat: the policy lists every capability per role rather than
// chaining roles through inheritance, so a reviewer does not silently
// gain organizer rights.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Resources covered by the policy.
const (
	ResourceEvents          = "events"
	ResourceModeration      = "moderation"
	ResourceRecommendations = "recommendations"
	ResourceAnalytics       = "analytics"
	ResourceUsers           = "users"
)

// Actions covered by the policy.
const (
	ActionRead     = "read"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionRSVP     = "rsvp"
	ActionBookmark = "bookmark"
	ActionModerate = "moderate"
	ActionFeature  = "feature"
)

// Enforcer answers "may this role perform this action on this
// resource" from the embedded policy. Safe for concurrent use.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadEmbeddedPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses the embedded policy CSV into the enforcer.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 4 || strings.TrimSpace(parts[0]) != "p" {
			continue
		}
		role := strings.TrimSpace(parts[1])
		object := strings.TrimSpace(parts[2])
		action := strings.TrimSpace(parts[3])

		if _, err := enforcer.AddPolicy(role, object, action); err != nil {
			return fmt.Errorf("failed to add policy %s/%s/%s: %w", role, object, action, err)
		}
	}
	return nil
}

// Allowed reports whether the role may perform action on resource.
func (e *Enforcer) Allowed(role, resource, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// Authorize checks the profile's role against the policy and returns a
// ForbiddenError on denial. A nil profile is always denied.
func (e *Enforcer) Authorize(profile *models.UserProfile, resource, action string) error {
	if profile == nil {
		return faults.Forbidden("authentication required")
	}
	allowed, err := e.Allowed(profile.Role, resource, action)
	if err != nil {
		return err
	}
	if !allowed {
		return faults.Forbidden(fmt.Sprintf("role %q may not %s %s", profile.Role, action, resource))
	}
	return nil
}
