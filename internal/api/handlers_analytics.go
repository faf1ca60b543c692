// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package api

import (
	"net/http"
	"time"

	"github.com/campusunite/engine/internal/authz"
	"github.com/campusunite/engine/internal/middleware"
)

// AnalyticsOverview handles GET /api/v1/admin/analytics/overview.
func (h *Handler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceAnalytics, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	overview, err := h.store.Overview(r.Context())
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, overview, started)
}

// AnalyticsRSVPs handles GET /api/v1/admin/analytics/rsvps: a daily
// RSVP series over the configured trailing window. The days query
// parameter overrides the window within [1, 365].
func (h *Handler) AnalyticsRSVPs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceAnalytics, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	days := queryInt(r, "days", h.config.Analytics.RSVPWindowDays)
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := h.store.DailyRSVPs(r.Context(), since)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, stats, started)
}
