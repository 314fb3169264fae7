// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package assist

import (
	"context"
	"strings"
	"testing"

	"github.com/olegiv/obuilder-go/internal/model"
)

func TestNewDisabledWithoutKey(t *testing.T) {
	s := New("", "gpt-4o-mini")
	if s.Enabled() {
		t.Error("Enabled() = true without API key")
	}

	if _, err := s.Suggest(context.Background(), model.ComponentTypeHero, "a todo app"); err == nil {
		t.Error("Suggest() error = nil when disabled")
	}
}

func TestSuggestRequiresBrief(t *testing.T) {
	s := New("sk-test", "gpt-4o-mini")

	if _, err := s.Suggest(context.Background(), model.ComponentTypeHero, "   "); err == nil {
		t.Error("Suggest() error = nil for empty brief")
	}
}

func TestUserPromptPerComponent(t *testing.T) {
	tests := []struct {
		componentType string
		want          string
	}{
		{model.ComponentTypeHero, "hero heading"},
		{model.ComponentTypeCTA, "call-to-action"},
		{model.ComponentTypeFeatures, "three feature titles"},
		{model.ComponentTypeFAQ, "customer questions"},
		{model.ComponentTypeText, "section text"},
	}
	for _, tt := range tests {
		got := userPrompt(tt.componentType, "a budgeting app")
		if !strings.Contains(got, tt.want) {
			t.Errorf("userPrompt(%s) = %q, want mention of %q", tt.componentType, got, tt.want)
		}
		if !strings.Contains(got, "a budgeting app") {
			t.Errorf("userPrompt(%s) missing the brief", tt.componentType)
		}
	}
}
