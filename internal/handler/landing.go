// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/obuilder-go/internal/lifecycle"
	"github.com/olegiv/obuilder-go/internal/model"
)

// LandingHandler serves the editor's landing-bundle endpoints: session
// state, template selection, draft saves, publishing and scheduling.
type LandingHandler struct {
	svc    *BundleService
	logger *slog.Logger
}

// NewLandingHandler creates a LandingHandler.
func NewLandingHandler(svc *BundleService, logger *slog.Logger) *LandingHandler {
	return &LandingHandler{svc: svc, logger: logger}
}

// versionSummary is the version archive entry as listed to the editor.
// The page snapshot itself is only returned when a version is applied.
type versionSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Active      bool      `json:"active"`
}

// sessionData shapes an editor session for JSON responses.
func sessionData(sess lifecycle.EditorSession) map[string]any {
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

	return map[string]any{
		"state":             sess.State,
		"draft":             sess.Draft,
		"has_published":     sess.Published != nil,
		"published_at":      sess.PublishedAt,
		"scheduled_at":      sess.ScheduledAt,
		"versions":          versions,
		"active_version_id": sess.ActiveVersionID,
	}
}

// State returns the current editor session.
// GET /api/landing
func (h *LandingHandler) State(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, sessionData(h.svc.Session()))
}

// SelectTemplate instantiates a catalog template as the new draft. Any
// unsaved draft is discarded.
// POST /api/landing/template
func (h *LandingHandler) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string `json:"template_id"`
		PageKind   string `json:"page_kind"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PageKind == "" {
		req.PageKind = model.PageKindSingle
	}
	if req.PageKind != model.PageKindSingle && req.PageKind != model.PageKindMulti {
		writeJSONError(w, http.StatusUnprocessableEntity, "page_kind must be single or multi")
		return
	}

	sess, err := h.svc.SelectTemplate(req.TemplateID, req.PageKind)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}

// SaveDraft stores the submitted document as the current draft.
// PUT /api/landing/draft
func (h *LandingHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document *model.PageDocument `json:"document"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.svc.SaveDraft(r.Context(), req.Document)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}

// Publish copies the draft into the published slot.
// POST /api/landing/publish
func (h *LandingHandler) Publish(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Publish(r.Context())
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	h.logger.Info("landing published via editor", "category", "landing")
	writeJSONSuccess(w, sessionData(sess))
}

// Schedule records a future publish time.
// POST /api/landing/schedule
func (h *LandingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ScheduledAt.IsZero() {
		writeJSONError(w, http.StatusUnprocessableEntity, "scheduled_at is required")
		return
	}

	sess, err := h.svc.SchedulePublish(r.Context(), req.ScheduledAt)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}

// ClearSchedule cancels a pending scheduled publish.
// DELETE /api/landing/schedule
func (h *LandingHandler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.ClearSchedule(r.Context())
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}

// ChangeTemplate clears the draft and returns to template selection,
// optionally preserving the current draft as a version first.
// POST /api/landing/change-template
func (h *LandingHandler) ChangeTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Save        bool   `json:"save"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.svc.ChangeTemplate(r.Context(), req.Save, req.Name, req.Description)
	if err != nil {
		writeOperationError(w, h.logger, err)
		return
	}
	writeJSONSuccess(w, sessionData(sess))
}
