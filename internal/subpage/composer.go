// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package subpage manages the sub-page set of a multi-page document.
// Operations never mutate the input document; each returns an updated
// deep copy for the caller to save as the new draft.
package subpage

import (
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/obuilder-go/internal/lifecycle"
	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/util"
)

// Reorder directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// CreateParams holds the user-supplied fields for a new sub-page. An
// empty Slug derives one from Title.
type CreateParams struct {
	Title       string
	Slug        string
	Icon        string
	Description string
}

// Patch holds the updatable sub-page fields. Nil pointers leave the
// field untouched; a non-nil Components replaces the list wholesale.
type Patch struct {
	Title       *string
	Slug        *string
	Icon        *string
	Description *string
	Components  []model.ComponentInstance
}

// CreateSubPage appends a new sub-page that inherits the parent's
// component set. The inherited components are deep copies with fresh
// ids and positions reindexed from 0, so edits to the sub-page never
// reach the parent. The new sub-page is appended visible, ordered last.
func CreateSubPage(doc *model.PageDocument, p CreateParams) (*model.PageDocument, model.SubPage, error) {
	if doc == nil {
		return nil, model.SubPage{}, &lifecycle.ValidationError{Field: "document", Reason: "no document"}
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, model.SubPage{}, &lifecycle.ValidationError{Field: "title", Reason: "title is required"}
	}

	slug := strings.TrimSpace(p.Slug)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		return nil, model.SubPage{}, &lifecycle.ValidationError{Field: "slug", Reason: "must be lowercase letters, digits and hyphens"}
	}
	if slugTaken(doc.SubPages, slug, "") {
		return nil, model.SubPage{}, &lifecycle.ValidationError{Field: "slug", Reason: "slug already used by another sub-page"}
	}

	out := doc.Clone()
	sp := model.SubPage{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       title,
		Icon:        p.Icon,
		Description: strings.TrimSpace(p.Description),
		Components:  inheritComponents(doc.Components),
		Order:       len(out.SubPages),
		Visible:     true,
	}
	out.SubPages = append(out.SubPages, sp)
	return out, sp, nil
}

// inheritComponents deep-copies the parent's components with fresh ids
// and dense 0-based order values.
func inheritComponents(parent []model.ComponentInstance) []model.ComponentInstance {
	out := make([]model.ComponentInstance, len(parent))
	for i, c := range parent {
		clone := c.Clone()
		clone.ID = uuid.NewString()
		clone.Order = i
		out[i] = clone
	}
	return out
}

// UpdateSubPage applies a patch to the sub-page with the given id.
func UpdateSubPage(doc *model.PageDocument, id string, patch Patch) (*model.PageDocument, error) {
	if doc == nil || doc.FindSubPage(id) == nil {
		return nil, &lifecycle.NotFoundError{Kind: "sub-page", ID: id}
	}

	if patch.Slug != nil {
		slug := strings.TrimSpace(*patch.Slug)
		if !util.IsValidSlug(slug) {
			return nil, &lifecycle.ValidationError{Field: "slug", Reason: "must be lowercase letters, digits and hyphens"}
		}
		if slugTaken(doc.SubPages, slug, id) {
			return nil, &lifecycle.ValidationError{Field: "slug", Reason: "slug already used by another sub-page"}
		}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, &lifecycle.ValidationError{Field: "title", Reason: "title is required"}
	}

	out := doc.Clone()
	sp := out.FindSubPage(id)
	if patch.Title != nil {
		sp.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil {
		sp.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Icon != nil {
		sp.Icon = *patch.Icon
	}
	if patch.Description != nil {
		sp.Description = *patch.Description
	}
	if patch.Components != nil {
		sp.Components = model.CloneComponents(patch.Components)
	}
	return out, nil
}

// DeleteSubPage removes the sub-page with the given id and reindexes
// the remaining orders.
func DeleteSubPage(doc *model.PageDocument, id string) (*model.PageDocument, error) {
	if doc == nil || doc.FindSubPage(id) == nil {
		return nil, &lifecycle.NotFoundError{Kind: "sub-page", ID: id}
	}

	out := doc.Clone()
	kept := out.SubPages[:0]
	for _, sp := range out.SubPages {
		if sp.ID != id {
			kept = append(kept, sp)
		}
	}
	out.SubPages = kept
	reindex(out.SubPages)
	return out, nil
}

// ToggleVisibility flips the visible flag of the sub-page with the
// given id. Hidden sub-pages stay in storage but leave navigation and
// the public render.
func ToggleVisibility(doc *model.PageDocument, id string) (*model.PageDocument, error) {
	if doc == nil || doc.FindSubPage(id) == nil {
		return nil, &lifecycle.NotFoundError{Kind: "sub-page", ID: id}
	}

	out := doc.Clone()
	sp := out.FindSubPage(id)
	sp.Visible = !sp.Visible
	return out, nil
}

// Reorder moves the sub-page one position up or down. Moving the first
// sub-page up or the last down is a no-op. Order values are rewritten
// to match array position after any move.
func Reorder(doc *model.PageDocument, id, direction string) (*model.PageDocument, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return nil, &lifecycle.ValidationError{Field: "direction", Reason: "must be up or down"}
	}
	if doc == nil || doc.FindSubPage(id) == nil {
		return nil, &lifecycle.NotFoundError{Kind: "sub-page", ID: id}
	}

	out := doc.Clone()
	idx := -1
	for i := range out.SubPages {
		if out.SubPages[i].ID == id {
			idx = i
			break
		}
	}

	swap := idx
	if direction == DirectionUp && idx > 0 {
		swap = idx - 1
	}
	if direction == DirectionDown && idx < len(out.SubPages)-1 {
		swap = idx + 1
	}
	out.SubPages[idx], out.SubPages[swap] = out.SubPages[swap], out.SubPages[idx]
	reindex(out.SubPages)
	return out, nil
}

// reindex rewrites order fields to dense 0-based array positions.
func reindex(subPages []model.SubPage) {
	for i := range subPages {
		subPages[i].Order = i
	}
}

// slugTaken reports whether slug is used by a sub-page other than exceptID.
func slugTaken(subPages []model.SubPage, slug, exceptID string) bool {
	for _, sp := range subPages {
		if sp.ID != exceptID && sp.Slug == slug {
			return true
		}
	}
	return false
}
