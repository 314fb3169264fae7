// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Template categories
const (
	TemplateCategorySaaS      = "saas"
	TemplateCategoryPortfolio = "portfolio"
	TemplateCategoryProduct   = "product"
	TemplateCategoryBlank     = "blank"
)

// Template is a static page blueprint: an ordered list of component
// blueprints with default configs. Instantiation turns it into a concrete
// PageDocument with fresh component ids.
type Template struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Category    string               `json:"category"`
	Components  []ComponentBlueprint `json:"components"`
}

// ComponentBlueprint is one component slot of a template: a type tag and
// its default config.
type ComponentBlueprint struct {
	Type   string          `json:"type"`
	Config ComponentConfig `json:"config"`
}
