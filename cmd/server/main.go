// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Command server runs the Campus Unite recommendation and moderation
// engine: event storage, the moderation workflow, the ranking engine,
// and the HTTP API, all under a supervision tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusunite/engine/internal/api"
	"github.com/campusunite/engine/internal/authz"
	"github.com/campusunite/engine/internal/bus"
	"github.com/campusunite/engine/internal/config"
	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/moderation"
	"github.com/campusunite/engine/internal/ranking"
	"github.com/campusunite/engine/internal/store"
	"github.com/campusunite/engine/internal/supervisor"
	"github.com/campusunite/engine/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting Campus Unite engine")

	eventStore, err := store.Open(store.Options{
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
	})
	if err != nil {
		return fmt.Errorf("failed to open event store: %w", err)
	}
	defer func() {
		if err := eventStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close event store")
		}
	}()

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return fmt.Errorf("failed to build authorizer: %w", err)
	}

	eventBus := bus.New()
	defer func() {
		if err := eventBus.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close event bus")
		}
	}()

	workflow := moderation.NewWorkflow(eventStore)

	var scorer ranking.Scorer
	if cfg.Ranking.ScorerURL != "" {
		scorer = ranking.NewExternalScorer(ranking.ExternalScorerConfig{
			URL:       cfg.Ranking.ScorerURL,
			Timeout:   cfg.Ranking.ScorerTimeout,
			RateLimit: cfg.Ranking.ScorerRateLimit,
		})
		logging.Info().Str("url", cfg.Ranking.ScorerURL).Msg("External scorer enabled")
	}
	engine := ranking.NewEngine(eventStore, scorer, ranking.Config{
		DefaultK: cfg.Ranking.DefaultK,
		MaxK:     cfg.Ranking.MaxK,
	})

	handler := api.NewHandler(eventStore, workflow, engine, enforcer, eventBus, cfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slogger := slog.New(logging.NewSlogHandler())
	tree, err := supervisor.NewTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to build supervision tree: %w", err)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	tree.AddAPIService(bus.NewListener(eventBus))
	if !cfg.Database.InMemory {
		tree.AddStorageService(services.NewGCService(eventStore, cfg.Database.GCInterval, cfg.Database.GCDiscardRatio))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Serving")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
