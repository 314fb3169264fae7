// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/olegiv/obuilder-go/internal/auth"
	"github.com/olegiv/obuilder-go/internal/middleware"
	"github.com/olegiv/obuilder-go/internal/session"
)

// AuthHandler serves editor login and logout. The builder has a single
// editor credential configured by environment.
type AuthHandler struct {
	sm           *scs.SessionManager
	passwordHash string
	protection   *middleware.LoginProtection
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sm *scs.SessionManager, passwordHash string, protection *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sm:           sm,
		passwordHash: passwordHash,
		protection:   protection,
		logger:       logger,
	}
}

// Login checks the editor password and marks the session on success.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if locked, retryAfter := h.protection.IsLocked(); locked {
		writeJSONError(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many failed attempts, try again in %d seconds", int(retryAfter.Seconds())))
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ok, err := auth.CheckPassword(req.Password, h.passwordHash)
	if err != nil {
		h.logger.Error("checking editor password failed", "category", "auth", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		locked, retryAfter := h.protection.RecordFailure()
		h.logger.Warn("editor login failed", "category", "auth",
			"ip", r.RemoteAddr, "client", clientInfo(r))
		if locked {
			writeJSONError(w, http.StatusTooManyRequests,
				fmt.Sprintf("too many failed attempts, try again in %d seconds", int(retryAfter.Seconds())))
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	h.protection.RecordSuccess()
	if err := session.MarkEditor(r.Context(), h.sm); err != nil {
		h.logger.Error("marking editor session failed", "category", "auth", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logger.Info("editor logged in", "category", "auth", "client", clientInfo(r))
	writeJSONSuccess(w, nil)
}

// clientInfo summarizes the requesting browser for audit events.
func clientInfo(r *http.Request) string {
	ua := useragent.Parse(r.UserAgent())
	if ua.Name == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s %s (%s)", ua.Name, ua.Version, ua.OS)
}

// Logout destroys the editor session.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.ClearEditor(r.Context(), h.sm); err != nil {
		h.logger.Error("clearing editor session failed", "category", "auth", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logger.Info("editor logged out", "category", "auth")
	writeJSONSuccess(w, nil)
}

// Status reports whether the current session is an authenticated editor.
// GET /api/auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"authenticated": session.IsEditor(r.Context(), h.sm),
	})
}
