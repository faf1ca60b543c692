// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package ranking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/metrics"
	"github.com/campusunite/engine/internal/models"
)

// ExternalScorerConfig configures the remote scoring service client.
type ExternalScorerConfig struct {
	// URL is the scoring endpoint. Empty disables the external scorer.
	URL string
	// Timeout bounds each scoring call.
	Timeout time.Duration
	// RateLimit is the maximum scoring calls per second.
	RateLimit float64
}

// scoreRequest is the wire format sent to the remote scorer.
type scoreRequest struct {
	Interests []string  `json:"interests"`
	Tags      []string  `json:"tags"`
	StartTime time.Time `json:"start_time"`
	Attendees int       `json:"attendees"`
	AsOf      time.Time `json:"as_of"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// ExternalScorer calls a remote learned-ranking service. Failures are
// reported as UpstreamUnavailable so the engine can fall back to the
// arithmetic model; the circuit breaker sheds load from a dead upstream
// and the rate limiter protects it from recommendation bursts.
type ExternalScorer struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[float64]
	limiter *rate.Limiter
}

// NewExternalScorer builds a scorer client for the given endpoint.
func NewExternalScorer(cfg ExternalScorerConfig) *ExternalScorer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 50
	}

	breaker := gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        "external-scorer",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Scorer circuit breaker state change")
		},
	})

	return &ExternalScorer{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)),
	}
}

// Name implements Scorer.
func (s *ExternalScorer) Name() string { return "external" }

// Score implements Scorer. Every failure mode maps to
// ErrUpstreamUnavailable; the caller decides how to degrade.
func (s *ExternalScorer) Score(ctx context.Context, profile *models.UserProfile, event *models.Event, asOf time.Time) (float64, error) {
	if !s.limiter.Allow() {
		metrics.RecordScorerCall("throttled")
		return 0, fmt.Errorf("scorer rate limit exceeded: %w", faults.ErrUpstreamUnavailable)
	}

	score, err := s.breaker.Execute(func() (float64, error) {
		return s.call(ctx, profile, event, asOf)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordScorerCall("open")
		case errors.Is(err, context.DeadlineExceeded):
			metrics.RecordScorerCall("timeout")
		default:
			metrics.RecordScorerCall("error")
		}
		return 0, fmt.Errorf("external scorer: %w: %w", faults.ErrUpstreamUnavailable, err)
	}

	metrics.RecordScorerCall("ok")
	return score, nil
}

func (s *ExternalScorer) call(ctx context.Context, profile *models.UserProfile, event *models.Event, asOf time.Time) (float64, error) {
	body, err := json.Marshal(scoreRequest{
		Interests: profile.Interests,
		Tags:      event.Tags,
		StartTime: event.StartTime,
		Attendees: len(event.Attendees),
		AsOf:      asOf,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return 0, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Score, nil
}
