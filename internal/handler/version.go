// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// VersionHandler serves the version archive endpoints.
type VersionHandler struct {
	svc    *BundleService
	logger *slog.Logger
}

// NewVersionHandler creates a VersionHandler.
func NewVersionHandler(svc *BundleService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{svc: svc, logger: logger}
}

// List returns the version archive, newest first.
// GET /api/landing/versions
func (h *VersionHandler) List(w http.ResponseWriter, _ *http.Request) {
	sess := h.svc.Session()

	versions := make([]versionSummary, 0, len(sess.Versions))
	for _, v := range sess.VersionList() {
		versions = append(versions, versionSummary{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			CreatedAt:   v.CreatedAt,
			Active:      v.ID == sess.ActiveVersionID,
		})
	}
	writeJSONSuccess(w, map[string]any{"versions": versions})
}

// Save snapshots the current draft as a named version.
// POST /api/landing/versions
func (h *VersionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, v, err := h.svc.SaveVersion(r.Context(), req.Name, req.Description)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	h.logger.Info("version saved via editor", "category", "version", "version", v.ID, "name", v.Name)

	data := sessionData(sess)
	data["version"] = versionSummary{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		CreatedAt:   v.CreatedAt,
		Active:      v.ID == sess.ActiveVersionID,
	}
	writeJSONSuccess(w, data)
}

// Apply restores a version's snapshot as the draft.
// POST /api/landing/versions/{versionID}/apply
func (h *VersionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	versionID := chi.URLParam(r, "versionID")

	sess, err := h.svc.ApplyVersion(r.Context(), versionID)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	h.logger.Info("version applied", "category", "version", "version", versionID)
	writeJSONSuccess(w, sessionData(sess))
}

// Delete removes a version from the archive.
// DELETE /api/landing/versions/{versionID}
func (h *VersionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	versionID := chi.URLParam(r, "versionID")

	sess, err := h.svc.DeleteVersion(r.Context(), versionID)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}
