// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
// Success and error payload shapes are distinct: Data is populated on success,
// Error on failure, never both.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"id": "...", "title": "..."},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Validation failed",
//	    "details": {"title": "title is required"}
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError carries structured error details.
//
// Code values: VALIDATION_ERROR, NOT_FOUND, FORBIDDEN, INVALID_TRANSITION,
// CAPACITY_EXCEEDED, CONFLICT, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ListResult wraps a paginated collection payload.
type ListResult struct {
	Count  int         `json:"count"`
	Offset int         `json:"offset"`
	Items  interface{} `json:"items"`
}

// AnalyticsOverview aggregates event and engagement totals for the admin
// dashboard. Formatting (CSV, charts) belongs to the external reporting layer.
type AnalyticsOverview struct {
	TotalEvents    int            `json:"total_events"`
	EventsByStatus map[Status]int `json:"events_by_status"`
	TotalRSVPs     int            `json:"total_rsvps"`
	TotalBookmarks int            `json:"total_bookmarks"`

	Categories    []CategoryStat  `json:"categories"`
	TopOrganizers []OrganizerStat `json:"top_organizers"`
}

// CategoryStat is a per-category breakdown.
type CategoryStat struct {
	Category   string `json:"category"`
	EventCount int    `json:"event_count"`
	TotalRSVPs int    `json:"total_rsvps"`
}

// OrganizerStat is a per-organizer breakdown.
type OrganizerStat struct {
	OrganizerID string `json:"organizer_id"`
	EventCount  int    `json:"event_count"`
	TotalRSVPs  int    `json:"total_rsvps"`
}

// DailyRSVPStat is one day of the trailing RSVP series.
type DailyRSVPStat struct {
	// Date is the day in YYYY-MM-DD form (UTC).
	Date string `json:"date"`

	// RSVPs is the summed rsvp count of events created that day.
	RSVPs int `json:"rsvps"`
}

// UserEvents groups the events a user organizes, attends, and has bookmarked.
type UserEvents struct {
	Organizing []Event `json:"organizing"`
	Attending  []Event `json:"attending"`
	Bookmarked []Event `json:"bookmarked"`
}
