// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package linkres resolves link targets for the editor: which anchors
// and page routes a component link can point at, and how a given link
// value is handled at render time.
package linkres

import (
	"sort"
	"strings"

	"github.com/olegiv/obuilder-go/internal/model"
)

// Link kinds as classified at render time.
const (
	KindAnchor    = "anchor"
	KindCrossPage = "cross_page"
	KindExternal  = "external"
)

// Candidate groups
const (
	GroupSections = "sections"
	GroupPages    = "pages"
)

// HeaderScrollOffset is subtracted from an anchor target's vertical
// position so the sticky header does not cover the scrolled-to section.
const HeaderScrollOffset = 80

// Candidate is one suggested link target. The candidate list is
// advisory: values typed outside it are kept verbatim as custom URLs.
type Candidate struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Group string `json:"group"`
}

// Candidates builds the link-target suggestions for a page. Visible
// components except header and footer become anchor candidates keyed by
// component id. Visible sub-pages become route candidates: sibling
// top-level routes on a multi-page site, routes nested under the page's
// own slug on a single-page site.
func Candidates(components []model.ComponentInstance, subPages []model.SubPage, pageSlug string, isMultiPage bool) []Candidate {
	var out []Candidate

	sorted := make([]model.ComponentInstance, len(components))
	copy(sorted, components)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	for _, c := range sorted {
		if !c.Visible || c.Type == model.ComponentTypeHeader || c.Type == model.ComponentTypeFooter {
			continue
		}
		out = append(out, Candidate{
			Value: "#" + c.ID,
			Label: model.ComponentDisplayName(c.Type),
			Group: GroupSections,
		})
	}

	for _, sp := range subPages {
		if !sp.Visible {
			continue
		}
		value := "/" + sp.Slug
		if !isMultiPage {
			value = "/" + pageSlug + "/" + sp.Slug
		}
		out = append(out, Candidate{Value: value, Label: sp.Title, Group: GroupPages})
	}

	return out
}

// Classify reports how a link value is handled at render time. Anchors
// scroll within the page; everything else goes through ordinary browser
// navigation, relative paths as cross-page routes and absolute URLs as
// external targets.
func Classify(link string) string {
	switch {
	case strings.HasPrefix(link, "#"):
		return KindAnchor
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"),
		strings.HasPrefix(link, "mailto:"), strings.HasPrefix(link, "tel:"),
		strings.HasPrefix(link, "//"):
		return KindExternal
	default:
		return KindCrossPage
	}
}
