// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/models"
)

type profileKey struct{}

// ContextWithProfile attaches the caller's profile to the context.
func ContextWithProfile(ctx context.Context, profile *models.UserProfile) context.Context {
	return context.WithValue(ctx, profileKey{}, profile)
}

// ProfileFromContext returns the caller's profile, or nil when the
// request was not authenticated.
func ProfileFromContext(ctx context.Context) *models.UserProfile {
	profile, _ := ctx.Value(profileKey{}).(*models.UserProfile)
	return profile
}

// identityClaims is the token payload the identity provider issues.
type identityClaims struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Interests []string `json:"interests"`
	jwt.RegisteredClaims
}

// Identity validates the bearer token and places the caller's profile
// in the request context. The identity provider authenticates users;
// this layer only decodes what it issued. Requests without a valid
// token are rejected before reaching any handler.
func Identity(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := profileFromRequest(r, secret)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected unauthenticated request")
				writeUnauthorized(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithProfile(r.Context(), profile)))
		})
	}
}

func profileFromRequest(r *http.Request, secret []byte) (*models.UserProfile, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	if !models.IsValidRole(claims.Role) {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return &models.UserProfile{
		ID:        claims.Subject,
		Name:      claims.Name,
		Role:      claims.Role,
		Interests: claims.Interests,
	}, nil
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "error",
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "a valid bearer token is required",
		},
	})
}
