// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/obuilder-go/internal/assist"
)

// AssistHandler serves AI copy suggestions for page components.
type AssistHandler struct {
	suggester *assist.Suggester
	logger    *slog.Logger
}

// NewAssistHandler creates an AssistHandler.
func NewAssistHandler(suggester *assist.Suggester, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{suggester: suggester, logger: logger}
}

// Suggest generates copy for a component type from a short product
// brief.
// POST /api/assist
func (h *AssistHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if !h.suggester.Enabled() {
		writeJSONError(w, http.StatusServiceUnavailable, "copy assistance is not configured")
		return
	}

	var req struct {
		ComponentType string `json:"component_type"`
		Brief         string `json:"brief"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Brief == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "brief is required")
		return
	}

	suggestion, err := h.suggester.Suggest(r.Context(), req.ComponentType, req.Brief)
	if err != nil {
		h.logger.Error("copy suggestion failed", "component_type", req.ComponentType, "error", err)
		writeJSONError(w, http.StatusBadGateway, "generating suggestion failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"suggestion": suggestion})
}
