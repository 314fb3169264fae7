// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/obuilder-go/internal/template"
)

// TemplateHandler serves the template catalog.
type TemplateHandler struct{}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// templateSummary is a catalog entry as listed in the template picker.
type templateSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category"`
	ComponentCount int    `json:"component_count"`
}

// List returns the built-in template catalog in display order.
// GET /api/templates
func (h *TemplateHandler) List(w http.ResponseWriter, _ *http.Request) {
	catalog := template.Catalog()
	templates := make([]templateSummary, 0, len(catalog))
	for _, tpl := range catalog {
		templates = append(templates, templateSummary{
			ID:             tpl.ID,
			Name:           tpl.Name,
			Description:    tpl.Description,
			Category:       tpl.Category,
			ComponentCount: len(tpl.Components),
		})
	}
	writeJSONSuccess(w, map[string]any{"templates": templates})
}
