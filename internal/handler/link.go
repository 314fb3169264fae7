// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/obuilder-go/internal/linkres"
)

// LinkHandler serves link-resolution endpoints for the editor's link
// pickers.
type LinkHandler struct {
	svc *BundleService
}

// NewLinkHandler creates a LinkHandler.
func NewLinkHandler(svc *BundleService) *LinkHandler {
	return &LinkHandler{svc: svc}
}

// Candidates returns the link-target suggestions for the draft: section
// anchors plus sub-page routes.
// GET /api/landing/links
func (h *LinkHandler) Candidates(w http.ResponseWriter, _ *http.Request) {
	candidates := h.svc.LinkCandidates()
	if candidates == nil {
		candidates = []linkres.Candidate{}
	}
	writeJSONSuccess(w, map[string]any{
		"candidates":    candidates,
		"scroll_offset": linkres.HeaderScrollOffset,
	})
}

// Classify reports how a link value is handled at render time.
// GET /api/landing/links/classify?link=...
func (h *LinkHandler) Classify(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "link query parameter is required")
		return
	}
	writeJSONSuccess(w, map[string]any{
		"link": link,
		"kind": linkres.Classify(link),
	})
}
