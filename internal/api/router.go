// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusunite/engine/internal/middleware"
)

// Router builds the HTTP routing table around a Handler.
type Router struct {
	handler *Handler
}

// NewRouter creates a router for the given handler.
func NewRouter(handler *Handler) *Router {
	return &Router{handler: handler}
}

// Setup configures all routes. Health and metrics are unauthenticated;
// everything under /api/v1 requires a valid bearer token.
func (router *Router) Setup() http.Handler {
	cfg := router.handler.config
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		MaxAge:         86400,
	}))

	r.Get("/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			cfg.Security.RateLimitPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
		r.Use(middleware.Metrics)
		r.Use(middleware.Identity([]byte(cfg.Security.JWTSecret)))

		r.Route("/events", func(r chi.Router) {
			r.Post("/", router.handler.CreateEvent)
			r.Get("/", router.handler.ListEvents)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetEvent)
				r.Patch("/", router.handler.UpdateEvent)
				r.Delete("/", router.handler.DeleteEvent)

				r.Post("/rsvp", router.handler.RSVP)
				r.Put("/bookmark", router.handler.AddBookmark)
				r.Delete("/bookmark", router.handler.RemoveBookmark)

				r.Post("/approve", router.handler.ApproveEvent)
				r.Post("/deny", router.handler.DenyEvent)
				r.Get("/moderation", router.handler.ModerationHistory)
			})
		})

		r.Get("/recommendations", router.handler.Recommendations)
		r.Get("/users/me/events", router.handler.MyEvents)

		r.Route("/admin/analytics", func(r chi.Router) {
			r.Get("/overview", router.handler.AnalyticsOverview)
			r.Get("/rsvps", router.handler.AnalyticsRSVPs)
		})
	})

	return r
}
