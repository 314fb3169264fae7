// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render prepares a page document for the public renderer:
// visible components in render order, with markdown text blocks
// converted to sanitized HTML.
package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/obuilder-go/internal/model"
)

// htmlSanitizer is the shared policy for rendered markdown. UGCPolicy
// keeps the tags goldmark emits for user-written text blocks and strips
// scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// VisibleComponents returns the components the renderer consumes:
// visible only, sorted by order ascending. The input is not modified.
func VisibleComponents(components []model.ComponentInstance) []model.ComponentInstance {
	out := make([]model.ComponentInstance, 0, len(components))
	for _, c := range components {
		if c.Visible {
			out = append(out, c.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// MarkdownHTML converts a markdown text block to sanitized HTML.
func MarkdownHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// RenderedComponent is one component ready for the public renderer.
// HTML is only set for text components.
type RenderedComponent struct {
	model.ComponentInstance
	HTML string `json:"html,omitempty"`
}

// PreparePage filters and orders a component list and renders markdown
// for text components.
func PreparePage(components []model.ComponentInstance) ([]RenderedComponent, error) {
	visible := VisibleComponents(components)
	out := make([]RenderedComponent, 0, len(visible))
	for _, c := range visible {
		rc := RenderedComponent{ComponentInstance: c}
		if cfg, ok := c.Config.(model.TextConfig); ok {
			html, err := MarkdownHTML(cfg.Markdown)
			if err != nil {
				return nil, err
			}
			rc.HTML = html
		}
		out = append(out, rc)
	}
	return out, nil
}
