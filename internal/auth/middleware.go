// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/swipewear/internal/logging"
)

// Auth modes accepted by security.auth_mode.
const (
	ModeNone = "none"
	ModeJWT  = "jwt"
)

type contextKey string

// ClaimsContextKey stores validated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

var (
	// ErrUnauthenticated means no valid token was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the token's subject does not match the user acted on.
	ErrForbidden = errors.New("token subject does not match user")
)

// Middleware authenticates API requests.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware creates the authentication middleware. jwtManager may be
// nil when authMode is "none".
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	if authMode == "" {
		authMode = ModeNone
	}
	return &Middleware{jwtManager: jwtManager, authMode: authMode}
}

// Enabled reports whether requests must carry a token.
func (m *Middleware) Enabled() bool {
	return m.authMode == ModeJWT
}

// Authenticate is middleware that enforces authentication
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next(w, r)
			return
		}

		token, err := extractBearerToken(r)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			unauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// Authorize checks that the request may act for userID. With auth disabled
// every user is allowed.
func (m *Middleware) Authorize(ctx context.Context, userID string) error {
	if !m.Enabled() {
		return nil
	}
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if claims.UserID() != userID {
		return ErrForbidden
	}
	return nil
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="swipewear"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"status":"error","data":null,"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
