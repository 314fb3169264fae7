// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/store"
)

// Event listing bounds.
const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// EventHandler serves the audit event log to the editor.
type EventHandler struct {
	events *store.EventStore
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events *store.EventStore, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// List returns recent events, newest first.
// GET /api/events?limit=N
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSONError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.events.ListRecentEvents(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing events failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "listing events failed")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSONSuccess(w, map[string]any{"events": events})
}
