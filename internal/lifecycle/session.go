// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"sort"
	"time"

	"github.com/olegiv/obuilder-go/internal/model"
)

// Session states
const (
	StateSelectingTemplate = "selecting_template"
	StateEditing           = "editing"
)

// EditorSession is the explicit, caller-owned state of one editing
// session: the in-memory mirror of the landing bundle plus the current
// state-machine position. Manager operations take a session value and
// return a new one; a failed operation returns the input unchanged.
type EditorSession struct {
	State           string
	Draft           *model.PageDocument
	Published       *model.PageDocument
	PublishedAt     *time.Time
	ScheduledAt     *time.Time
	Versions        []model.Version
	ActiveVersionID string
}

// NewSession returns an empty session in the template-selection state.
func NewSession() EditorSession {
	return EditorSession{State: StateSelectingTemplate}
}

// sessionFromBundle mirrors a loaded bundle into a session value. The
// bundle must already be owned by the session (cloned by the caller).
func sessionFromBundle(b *model.LandingBundle) EditorSession {
	if b == nil {
		return NewSession()
	}
	s := EditorSession{
		Draft:           b.Draft,
		Published:       b.Published,
		PublishedAt:     b.PublishedAt,
		ScheduledAt:     b.ScheduledAt,
		Versions:        b.Versions,
		ActiveVersionID: b.ActiveVersionID,
	}
	if s.Draft != nil {
		s.State = StateEditing
	} else {
		s.State = StateSelectingTemplate
	}
	return s
}

// bundle assembles a deep-copied LandingBundle from the session, suitable
// for handing to the store without aliasing session state.
func (s EditorSession) bundle() *model.LandingBundle {
	b := &model.LandingBundle{
		Draft:           s.Draft,
		Published:       s.Published,
		PublishedAt:     s.PublishedAt,
		ScheduledAt:     s.ScheduledAt,
		Versions:        s.Versions,
		ActiveVersionID: s.ActiveVersionID,
	}
	return b.Clone()
}

// VersionList returns the session's versions ordered by creation time
// descending for presentation. The returned slice is a copy.
func (s EditorSession) VersionList() []model.Version {
	out := make([]model.Version, len(s.Versions))
	copy(out, s.Versions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// FindVersion returns the version with the given id.
func (s EditorSession) FindVersion(id string) (model.Version, bool) {
	for _, v := range s.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return model.Version{}, false
}

// ActiveVersion resolves ActiveVersionID. An unresolved id (legacy data
// written before deletes cleared it) reads as "no active version".
func (s EditorSession) ActiveVersion() (model.Version, bool) {
	if s.ActiveVersionID == "" {
		return model.Version{}, false
	}
	return s.FindVersion(s.ActiveVersionID)
}
