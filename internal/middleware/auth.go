// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the builder's editor
// API: session auth, CSRF, rate limiting and request timeouts.
package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/obuilder-go/internal/session"
)

// RequireEditor gates editor API routes behind the session login.
// Unauthenticated requests get a JSON 401 rather than a redirect; the
// editor UI handles re-login itself.
func RequireEditor(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsEditor(r.Context(), sm) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
