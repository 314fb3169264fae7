// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package assist generates copy suggestions for page components through
// the OpenAI API. The feature is optional and off unless an API key is
// configured.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/olegiv/obuilder-go/internal/model"
)

const systemPrompt = "You are a copywriter for landing pages. " +
	"Write short, concrete marketing copy. Reply with the copy only, " +
	"no preamble and no quotation marks."

// Suggester produces copy suggestions for a component type.
type Suggester struct {
	client  openai.Client
	model   string
	enabled bool
}

// New creates a Suggester. An empty API key disables the feature.
func New(apiKey, modelName string) *Suggester {
	if apiKey == "" {
		return &Suggester{}
	}
	return &Suggester{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   modelName,
		enabled: true,
	}
}

// Enabled reports whether suggestions can be generated.
func (s *Suggester) Enabled() bool { return s.enabled }

// Suggest generates copy for a component given a short product brief.
func (s *Suggester) Suggest(ctx context.Context, componentType, brief string) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("copy assistance is not configured")
	}
	brief = strings.TrimSpace(brief)
	if brief == "" {
		return "", fmt.Errorf("brief is required")
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(componentType, brief)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating suggestion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no suggestion returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// userPrompt builds the per-component instruction.
func userPrompt(componentType, brief string) string {
	var task string
	switch componentType {
	case model.ComponentTypeHero:
		task = "Write a hero heading (max 10 words) and a one-sentence subheading, separated by a newline."
	case model.ComponentTypeCTA:
		task = "Write a call-to-action heading (max 8 words) and a button label (max 3 words), separated by a newline."
	case model.ComponentTypeFeatures:
		task = "Write three feature titles with one-sentence descriptions, one feature per line as 'Title: description'."
	case model.ComponentTypeFAQ:
		task = "Write three likely customer questions with short answers, one per line as 'Question? Answer.'."
	default:
		task = fmt.Sprintf("Write a short %s section text (2-3 sentences).", model.ComponentDisplayName(componentType))
	}
	return fmt.Sprintf("%s\n\nProduct: %s", task, brief)
}
