// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Theme is a named set of design tokens applied by the renderer. Token
// application is outside this core; the engine only stores and references
// themes by id.
type Theme struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Tokens map[string]string `json:"tokens,omitempty"`
}

// Clone returns a deep copy of the theme.
func (t Theme) Clone() Theme {
	out := t
	if t.Tokens != nil {
		out.Tokens = make(map[string]string, len(t.Tokens))
		for k, v := range t.Tokens {
			out.Tokens[k] = v
		}
	}
	return out
}

// ConfigDocument is the whole persisted configuration: all pages, the
// active landing bundle and the theme set. The store reads and writes it
// as a unit; the core never issues partial updates.
type ConfigDocument struct {
	Pages          map[string]*PageDocument `json:"pages,omitempty"`
	CurrentLanding *LandingBundle           `json:"current_landing,omitempty"`
	Themes         map[string]Theme         `json:"themes,omitempty"`
}

// Clone returns a structurally independent deep copy of the document.
func (d *ConfigDocument) Clone() *ConfigDocument {
	if d == nil {
		return nil
	}
	out := &ConfigDocument{}
	if d.Pages != nil {
		out.Pages = make(map[string]*PageDocument, len(d.Pages))
		for k, v := range d.Pages {
			out.Pages[k] = v.Clone()
		}
	}
	out.CurrentLanding = d.CurrentLanding.Clone()
	if d.Themes != nil {
		out.Themes = make(map[string]Theme, len(d.Themes))
		for k, v := range d.Themes {
			out.Themes[k] = v.Clone()
		}
	}
	return out
}
