// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// LandingBundle holds the draft/publish duality for the active site plus
// its named versions. Draft is the only document the editor mutates;
// Published is set exclusively by a publish action.
type LandingBundle struct {
	Draft           *PageDocument `json:"draft,omitempty"`
	Published       *PageDocument `json:"published,omitempty"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	ScheduledAt     *time.Time    `json:"scheduled_at,omitempty"`
	Versions        []Version     `json:"versions,omitempty"`
	ActiveVersionID string        `json:"active_version_id,omitempty"`
}

// Clone returns a structurally independent deep copy of the bundle.
func (b *LandingBundle) Clone() *LandingBundle {
	if b == nil {
		return nil
	}
	out := *b
	out.Draft = b.Draft.Clone()
	out.Published = b.Published.Clone()
	if b.PublishedAt != nil {
		t := *b.PublishedAt
		out.PublishedAt = &t
	}
	if b.ScheduledAt != nil {
		t := *b.ScheduledAt
		out.ScheduledAt = &t
	}
	if b.Versions != nil {
		out.Versions = make([]Version, len(b.Versions))
		for i := range b.Versions {
			out.Versions[i] = b.Versions[i].Clone()
		}
	}
	return &out
}

// FindVersion returns the version with the given id, or nil.
func (b *LandingBundle) FindVersion(id string) *Version {
	for i := range b.Versions {
		if b.Versions[i].ID == id {
			return &b.Versions[i]
		}
	}
	return nil
}

// Version is a named snapshot of a page document. The Page field is a full
// copy owned by the version; draft edits never alias it.
type Version struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Page        *PageDocument `json:"page"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Clone returns a deep copy of the version.
func (v Version) Clone() Version {
	out := v
	out.Page = v.Page.Clone()
	return out
}
