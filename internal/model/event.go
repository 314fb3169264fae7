// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryLanding = "landing"
	EventCategoryVersion = "version"
	EventCategorySubPage = "subpage"
	EventCategoryUpload  = "upload"
	EventCategoryAuth    = "auth"
	EventCategorySystem  = "system"
)

// Event is one audit record of an editor action or a WARN+ log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
