// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package config loads and validates engine configuration.
//
// Configuration is layered: struct defaults first, then an optional YAML file
// (config.yaml, /etc/campusunite/config.yaml, or CONFIG_PATH), then
// environment variables (SERVER_PORT -> server.port) with highest priority.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the engine.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Ranking   RankingConfig   `koanf:"ranking"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Timeout bounds request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds Badger settings.
type DatabaseConfig struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory runs the store without disk persistence (tests, demos).
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often the value-log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is the reclaim threshold passed to Badger's GC.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`
}

// SecurityConfig holds transport security settings.
//
// Token issuance belongs to the external identity provider; the engine only
// verifies tokens with the shared secret and re-checks roles itself.
type SecurityConfig struct {
	// JWTSecret verifies bearer tokens issued by the identity provider.
	JWTSecret string `koanf:"jwt_secret"`

	// CORSOrigins lists allowed origins. Comma-separated in env form.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitPerMinute caps requests per client IP per minute.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
}

// RankingConfig holds recommendation engine settings.
type RankingConfig struct {
	// DefaultK is the number of recommendations returned when the caller
	// does not ask for a specific count.
	DefaultK int `koanf:"default_k"`

	// MaxK caps the recommendation count a caller may request.
	MaxK int `koanf:"max_k"`

	// ScorerURL is the optional external scorer endpoint. Empty disables
	// the external path and the arithmetic model is used directly.
	ScorerURL string `koanf:"scorer_url"`

	// ScorerTimeout bounds each external scorer call. On timeout the
	// engine falls back to the arithmetic model; the request never fails.
	ScorerTimeout time.Duration `koanf:"scorer_timeout"`

	// ScorerRateLimit caps external scorer calls per second. Zero disables
	// the limiter.
	ScorerRateLimit float64 `koanf:"scorer_rate_limit"`
}

// AnalyticsConfig holds admin analytics settings.
type AnalyticsConfig struct {
	// RSVPWindowDays is the trailing window for the daily RSVP series.
	RSVPWindowDays int `koanf:"rsvp_window_days"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:           "/data/campusunite",
			InMemory:       false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Security: SecurityConfig{
			JWTSecret:          "",
			CORSOrigins:        []string{"*"},
			RateLimitPerMinute: 300,
		},
		Ranking: RankingConfig{
			DefaultK:        10,
			MaxK:            100,
			ScorerURL:       "",
			ScorerTimeout:   2 * time.Second,
			ScorerRateLimit: 10,
		},
		Analytics: AnalyticsConfig{
			RSVPWindowDays: 30,
		},
	}
}

// Validate checks the configuration for invalid combinations.
// It returns the first hard error; soft issues are left to the caller's logs.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}
	if c.Database.GCDiscardRatio <= 0 || c.Database.GCDiscardRatio >= 1 {
		return fmt.Errorf("database.gc_discard_ratio must be in (0,1), got %v", c.Database.GCDiscardRatio)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required")
	}
	if c.Ranking.DefaultK <= 0 {
		return fmt.Errorf("ranking.default_k must be positive, got %d", c.Ranking.DefaultK)
	}
	if c.Ranking.MaxK < c.Ranking.DefaultK {
		return fmt.Errorf("ranking.max_k (%d) must be >= ranking.default_k (%d)",
			c.Ranking.MaxK, c.Ranking.DefaultK)
	}
	if c.Ranking.ScorerURL != "" {
		if _, err := url.ParseRequestURI(c.Ranking.ScorerURL); err != nil {
			return fmt.Errorf("ranking.scorer_url is not a valid URL: %w", err)
		}
		if c.Ranking.ScorerTimeout <= 0 {
			return fmt.Errorf("ranking.scorer_timeout must be positive when a scorer URL is set")
		}
	}
	if c.Analytics.RSVPWindowDays <= 0 {
		return fmt.Errorf("analytics.rsvp_window_days must be positive, got %d",
			c.Analytics.RSVPWindowDays)
	}
	return nil
}
