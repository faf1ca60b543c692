// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - HTTP endpoint latency and throughput
// - Event store transactions and conflicts
// - RSVP capacity rejections
// - Moderation decisions
// - External scorer health

var (
	// HTTP Endpoint Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Event Store Metrics
	StoreTxnRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_txn_retries_total",
			Help: "Total number of store transaction retries after write conflicts",
		},
	)

	StoreConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_conflicts_total",
			Help: "Total number of store transactions abandoned after exhausting retries",
		},
	)

	EventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_created_total",
			Help: "Total number of event submissions accepted",
		},
	)

	RSVPRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rsvp_rejections_total",
			Help: "Total number of RSVP attempts rejected at capacity",
		},
	)

	// Moderation Metrics
	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Total number of moderation decisions by outcome",
		},
		[]string{"decision"}, // "approved", "denied"
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation queries served",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent scoring and ranking a recommendation query",
			Buckets: prometheus.DefBuckets,
		},
	)

	// External Scorer Metrics
	ScorerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_requests_total",
			Help: "Total number of external scorer calls by outcome",
		},
		[]string{"outcome"}, // "ok", "error", "timeout", "open"
	)

	ScorerFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scorer_fallbacks_total",
			Help: "Total number of queries served by the built-in scorer after an external failure",
		},
	)

	// Bus Metrics
	BusEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_events_published_total",
			Help: "Total number of domain events published by topic",
		},
		[]string{"topic"},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordModerationDecision records a moderation outcome.
func RecordModerationDecision(decision string) {
	ModerationDecisions.WithLabelValues(decision).Inc()
}

// RecordRecommendation records a served recommendation query.
func RecordRecommendation(duration time.Duration) {
	RecommendationRequests.Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordScorerCall records an external scorer call outcome.
func RecordScorerCall(outcome string) {
	ScorerRequests.WithLabelValues(outcome).Inc()
}

// TrackActiveRequest tracks in-flight HTTP requests.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}
