// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package template turns static template definitions into concrete page
// documents with freshly generated component identifiers.
package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/util"
)

// Instantiate builds a PageDocument from a template definition. Every
// component gets a fresh unique id and a 1-based order matching its
// blueprint position. Multi-page documents start with an empty sub-page
// list and default navigation settings.
func Instantiate(tpl model.Template, pageKind string) *model.PageDocument {
	now := time.Now()

	doc := &model.PageDocument{
		ID:         uuid.New().String(),
		Title:      tpl.Name,
		Slug:       util.Slugify(tpl.Name),
		Kind:       pageKind,
		Status:     model.PageStatusDraft,
		Components: make([]model.ComponentInstance, 0, len(tpl.Components)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for i, bp := range tpl.Components {
		var cfg model.ComponentConfig
		if bp.Config != nil {
			cfg = bp.Config.CloneConfig()
		}
		doc.Components = append(doc.Components, model.ComponentInstance{
			ID:      uuid.New().String(),
			Type:    bp.Type,
			Config:  cfg,
			Order:   i + 1,
			Visible: true,
		})
	}

	if pageKind == model.PageKindMulti {
		doc.SubPages = []model.SubPage{}
		doc.Navigation = model.DefaultNavigation()
	}

	return doc
}
