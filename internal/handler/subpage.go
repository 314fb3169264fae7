// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/subpage"
)

// SubPageHandler serves the sub-page endpoints of the draft document.
type SubPageHandler struct {
	svc    *BundleService
	logger *slog.Logger
}

// NewSubPageHandler creates a SubPageHandler.
func NewSubPageHandler(svc *BundleService, logger *slog.Logger) *SubPageHandler {
	return &SubPageHandler{svc: svc, logger: logger}
}

// Create adds a new sub-page that inherits the parent's components.
// POST /api/landing/subpages
func (h *SubPageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Icon        string `json:"icon"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, sp, err := h.svc.CreateSubPage(r.Context(), subpage.CreateParams{
		Title:       req.Title,
		Slug:        req.Slug,
		Icon:        req.Icon,
		Description: req.Description,
	})
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	h.logger.Info("sub-page created", "category", "subpage", "subpage", sp.ID, "slug", sp.Slug)

	data := sessionData(sess)
	data["sub_page"] = sp
	writeJSONSuccess(w, data)
}

// Update patches a sub-page's metadata or replaces its component list.
// Absent fields stay untouched.
// PATCH /api/landing/subpages/{subPageID}
func (h *SubPageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subPageID")

	var req struct {
		Title       *string                   `json:"title"`
		Slug        *string                   `json:"slug"`
		Icon        *string                   `json:"icon"`
		Description *string                   `json:"description"`
		Components  []model.ComponentInstance `json:"components"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.svc.UpdateSubPage(r.Context(), id, subpage.Patch{
		Title:       req.Title,
		Slug:        req.Slug,
		Icon:        req.Icon,
		Description: req.Description,
		Components:  req.Components,
	})
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}

// Delete removes a sub-page.
// DELETE /api/landing/subpages/{subPageID}
func (h *SubPageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subPageID")

	sess, err := h.svc.DeleteSubPage(r.Context(), id)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	h.logger.Info("sub-page deleted", "category", "subpage", "subpage", id)
	writeJSONSuccess(w, sessionData(sess))
}

// Toggle flips a sub-page's visibility.
// POST /api/landing/subpages/{subPageID}/toggle
func (h *SubPageHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subPageID")

	sess, err := h.svc.ToggleSubPage(r.Context(), id)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}

// Reorder moves a sub-page one position up or down.
// POST /api/landing/subpages/{subPageID}/reorder
func (h *SubPageHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subPageID")

	var req struct {
		Direction string `json:"direction"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.svc.ReorderSubPage(r.Context(), id, req.Direction)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}
