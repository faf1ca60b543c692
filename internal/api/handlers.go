// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package api exposes the engine over HTTP.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_events.go: event CRUD, RSVP, bookmarks
//   - handlers_moderation.go: approve/deny and moderation history
//   - handlers_recommend.go: recommendations
//   - handlers_users.go: the caller's event lists
//   - handlers_analytics.go: admin analytics
//   - handlers_health.go: health and readiness
package api

import (
	"time"

	"github.com/campusunite/engine/internal/authz"
	"github.com/campusunite/engine/internal/bus"
	"github.com/campusunite/engine/internal/config"
	"github.com/campusunite/engine/internal/moderation"
	"github.com/campusunite/engine/internal/ranking"
	"github.com/campusunite/engine/internal/store"
)

// Handler contains the dependencies of every API endpoint.
type Handler struct {
	store     store.EventStore
	workflow  *moderation.Workflow
	engine    *ranking.Engine
	enforcer  *authz.Enforcer
	bus       *bus.Bus
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(s store.EventStore, workflow *moderation.Workflow, engine *ranking.Engine, enforcer *authz.Enforcer, b *bus.Bus, cfg *config.Config) *Handler {
	return &Handler{
		store:     s,
		workflow:  workflow,
		engine:    engine,
		enforcer:  enforcer,
		bus:       b,
		config:    cfg,
		startTime: time.Now(),
	}
}
