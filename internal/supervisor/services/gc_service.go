// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package services

import (
	"context"
	"time"

	"github.com/campusunite/engine/internal/logging"
)

// ValueLogGC matches the store's garbage collection hook.
type ValueLogGC interface {
	RunValueLogGC(discardRatio float64) error
}

// GCService periodically reclaims space from the store's value log.
// Badger returns an error when a GC pass found nothing to collect;
// that is the common case and is not logged.
type GCService struct {
	store        ValueLogGC
	interval     time.Duration
	discardRatio float64
}

// NewGCService creates the value-log maintenance loop.
func NewGCService(store ValueLogGC, interval time.Duration, discardRatio float64) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &GCService{store: store, interval: interval, discardRatio: discardRatio}
}

// Serve implements suture.Service.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Repeat until a pass reclaims nothing.
			for {
				if err := g.store.RunValueLogGC(g.discardRatio); err != nil {
					break
				}
				logging.Debug().Msg("Value log GC pass reclaimed space")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (g *GCService) String() string {
	return "store-gc"
}
