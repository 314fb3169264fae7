// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content entities of the landing-page builder:
// page documents, placed components, sub-pages, the draft/publish bundle
// and named versions.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Page kinds
const (
	PageKindSingle = "single"
	PageKindMulti  = "multi"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// PageDocument is one landing page: its metadata, ordered component list
// and, for multi-page sites, the sub-page set and navigation settings.
type PageDocument struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Slug       string              `json:"slug"`
	ThemeID    string              `json:"theme_id,omitempty"`
	Kind       string              `json:"kind"`
	Status     string              `json:"status"`
	Components []ComponentInstance `json:"components"`
	SubPages   []SubPage           `json:"sub_pages,omitempty"`
	Navigation *NavigationSettings `json:"navigation,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// IsPublished returns true if the page is published.
func (d *PageDocument) IsPublished() bool {
	return d.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (d *PageDocument) IsDraft() bool {
	return d.Status == PageStatusDraft
}

// IsMultiPage returns true for multi-page sites.
func (d *PageDocument) IsMultiPage() bool {
	return d.Kind == PageKindMulti
}

// Clone returns a structurally independent deep copy of the document.
// Mutating the clone (including nested component configs) never affects
// the original.
func (d *PageDocument) Clone() *PageDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Components = CloneComponents(d.Components)
	if d.SubPages != nil {
		out.SubPages = make([]SubPage, len(d.SubPages))
		for i := range d.SubPages {
			out.SubPages[i] = d.SubPages[i].Clone()
		}
	}
	if d.Navigation != nil {
		nav := *d.Navigation
		out.Navigation = &nav
	}
	return &out
}

// FindSubPage returns the sub-page with the given id, or nil.
func (d *PageDocument) FindSubPage(id string) *SubPage {
	for i := range d.SubPages {
		if d.SubPages[i].ID == id {
			return &d.SubPages[i]
		}
	}
	return nil
}

// ComponentInstance is one placed component on a page. Config is a tagged
// union keyed by Type; see component.go.
type ComponentInstance struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Config  ComponentConfig `json:"config"`
	Order   int             `json:"order"`
	Visible bool            `json:"visible"`
}

// Clone returns a deep copy of the component, including its config.
func (c ComponentInstance) Clone() ComponentInstance {
	out := c
	if c.Config != nil {
		out.Config = c.Config.CloneConfig()
	}
	return out
}

// CloneComponents deep-copies a component list.
func CloneComponents(components []ComponentInstance) []ComponentInstance {
	if components == nil {
		return nil
	}
	out := make([]ComponentInstance, len(components))
	for i := range components {
		out[i] = components[i].Clone()
	}
	return out
}

// componentInstanceJSON mirrors ComponentInstance with a raw config payload
// so the typed config can be decoded after the type tag is known.
type componentInstanceJSON struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Config  json.RawMessage `json:"config"`
	Order   int             `json:"order"`
	Visible *bool           `json:"visible"`
}

// UnmarshalJSON decodes the component and dispatches the config payload on
// the type tag. A missing "visible" field defaults to true so documents
// written before the field existed render fully.
func (c *ComponentInstance) UnmarshalJSON(data []byte) error {
	var raw componentInstanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cfg, err := UnmarshalComponentConfig(raw.Type, raw.Config)
	if err != nil {
		return fmt.Errorf("component %s: %w", raw.ID, err)
	}

	c.ID = raw.ID
	c.Type = raw.Type
	c.Config = cfg
	c.Order = raw.Order
	c.Visible = raw.Visible == nil || *raw.Visible
	return nil
}

// SubPage is a child page of a multi-page site. It inherits the parent's
// component set at creation time only; afterwards it is fully independent.
type SubPage struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Icon        string              `json:"icon,omitempty"`
	Description string              `json:"description,omitempty"`
	Components  []ComponentInstance `json:"components"`
	Order       int                 `json:"order"`
	Visible     bool                `json:"visible"`
}

// Clone returns a deep copy of the sub-page.
func (s SubPage) Clone() SubPage {
	out := s
	out.Components = CloneComponents(s.Components)
	return out
}

// Navigation styles
const (
	NavStyleTabs     = "tabs"
	NavStylePills    = "pills"
	NavStyleSidebar  = "sidebar"
	NavStyleDropdown = "dropdown"
)

// Sidebar positions
const (
	NavPositionLeft  = "left"
	NavPositionRight = "right"
)

// ValidNavStyles contains all valid navigation styles.
var ValidNavStyles = []string{NavStyleTabs, NavStylePills, NavStyleSidebar, NavStyleDropdown}

// NavigationSettings controls how sub-page navigation is presented.
// Position is only meaningful when Style is sidebar.
type NavigationSettings struct {
	Enabled   bool   `json:"enabled"`
	Style     string `json:"style"`
	ShowIcons bool   `json:"show_icons"`
	Sticky    bool   `json:"sticky"`
	Position  string `json:"position,omitempty"`
}

// IsValidNavStyle reports whether style is a known navigation style.
func IsValidNavStyle(style string) bool {
	for _, s := range ValidNavStyles {
		if s == style {
			return true
		}
	}
	return false
}

// DefaultNavigation returns the navigation settings applied when a
// multi-page document is instantiated.
func DefaultNavigation() *NavigationSettings {
	return &NavigationSettings{
		Enabled:   true,
		Style:     NavStyleTabs,
		ShowIcons: false,
		Sticky:    true,
	}
}
