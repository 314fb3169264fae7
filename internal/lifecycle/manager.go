// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package lifecycle implements the draft/publish/version state machine
// for the current landing bundle. Operations are all-or-nothing: the
// updated bundle is written to the store first, and only a successful
// write commits the change to the returned session.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/store"
	"github.com/olegiv/obuilder-go/internal/template"
)

// Version modes. In track mode, saving a draft while a version is active
// rewrites that version's snapshot in place. In frozen mode, snapshots
// are immutable and saving a draft detaches it from its version.
const (
	VersionModeTrack  = "track"
	VersionModeFrozen = "frozen"
)

// Store is the persistence surface the manager needs. Implemented by
// store.ConfigStore.
type Store interface {
	ReadConfig(ctx context.Context) (*model.ConfigDocument, error)
	WriteConfig(ctx context.Context, doc *model.ConfigDocument) error
}

// Manager drives lifecycle transitions for editor sessions. It holds no
// bundle state itself; callers pass a session in and receive the updated
// session back. Callers serialize operations on a given bundle.
type Manager struct {
	store  Store
	mode   string
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager. An unrecognized mode falls back to track.
func NewManager(s Store, mode string, logger *slog.Logger) *Manager {
	if mode != VersionModeFrozen {
		mode = VersionModeTrack
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: s, mode: mode, logger: logger, now: time.Now}
}

// LoadBundle reads the stored bundle into a fresh session. A store with
// no usable bundle yields a template-selection session rather than an
// error, so a fresh install lands in the picker.
func (m *Manager) LoadBundle(ctx context.Context) EditorSession {
	doc, err := m.store.ReadConfig(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoDocument) {
			m.logger.Warn("loading landing bundle failed, starting empty", "error", err)
		}
		return NewSession()
	}
	if doc.CurrentLanding == nil {
		return NewSession()
	}
	return sessionFromBundle(doc.CurrentLanding.Clone())
}

// SelectTemplate instantiates a template as the new draft, discarding any
// unsaved draft and detaching from the active version. The new draft is
// not persisted until the first SaveDraft.
func (m *Manager) SelectTemplate(sess EditorSession, tpl model.Template, pageKind string) EditorSession {
	next := sess
	next.Draft = template.Instantiate(tpl, pageKind)
	next.ActiveVersionID = ""
	next.State = StateEditing
	m.logger.Info("template selected", "template", tpl.ID, "kind", pageKind)
	return next
}

// SaveDraft persists the updated document as the draft. With an active
// version, track mode rewrites that version's snapshot alongside the
// draft; frozen mode detaches the draft instead.
func (m *Manager) SaveDraft(ctx context.Context, sess EditorSession, updated *model.PageDocument) (EditorSession, error) {
	if updated == nil {
		return sess, &ValidationError{Field: "document", Reason: "no document to save"}
	}

	draft := updated.Clone()
	draft.Status = model.PageStatusDraft
	draft.UpdatedAt = m.now()

	next := sess
	next.Draft = draft
	next.State = StateEditing

	if sess.ActiveVersionID != "" {
		switch m.mode {
		case VersionModeFrozen:
			next.ActiveVersionID = ""
		default:
			next.Versions = rewriteVersion(sess.Versions, sess.ActiveVersionID, draft)
			if next.Versions == nil {
				// Dangling id from legacy data. Drop it rather than
				// resurrecting a deleted version.
				next.Versions = sess.Versions
				next.ActiveVersionID = ""
			}
		}
	}

	if err := m.persist(ctx, next, "draft"); err != nil {
		return sess, err
	}
	return next, nil
}

// rewriteVersion returns a copy of versions with the snapshot of id
// replaced by a clone of page, or nil if id is not present.
func rewriteVersion(versions []model.Version, id string, page *model.PageDocument) []model.Version {
	idx := -1
	for i, v := range versions {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]model.Version, len(versions))
	copy(out, versions)
	out[idx].Page = page.Clone()
	return out
}

// Publish copies the draft into the published slot with status published.
// The draft itself keeps status draft and stays editable. A pending
// schedule is considered satisfied and cleared.
func (m *Manager) Publish(ctx context.Context, sess EditorSession) (EditorSession, error) {
	if sess.Draft == nil {
		return sess, &ValidationError{Field: "draft", Reason: "nothing to publish"}
	}

	published := sess.Draft.Clone()
	published.Status = model.PageStatusPublished
	now := m.now()

	next := sess
	next.Published = published
	next.PublishedAt = &now
	next.ScheduledAt = nil

	if err := m.persist(ctx, next, "publish"); err != nil {
		return sess, err
	}
	m.logger.Info("landing published", "page", published.ID, "slug", published.Slug)
	return next, nil
}

// SchedulePublish records a future time at which the scheduler publishes
// the draft. The time must be in the future.
func (m *Manager) SchedulePublish(ctx context.Context, sess EditorSession, at time.Time) (EditorSession, error) {
	if sess.Draft == nil {
		return sess, &ValidationError{Field: "draft", Reason: "nothing to schedule"}
	}
	if !at.After(m.now()) {
		return sess, &ValidationError{Field: "scheduled_at", Reason: "must be in the future"}
	}

	next := sess
	at = at.UTC()
	next.ScheduledAt = &at

	if err := m.persist(ctx, next, "schedule"); err != nil {
		return sess, err
	}
	return next, nil
}

// ClearSchedule cancels a pending scheduled publish. Clearing when no
// schedule is pending is a no-op.
func (m *Manager) ClearSchedule(ctx context.Context, sess EditorSession) (EditorSession, error) {
	if sess.ScheduledAt == nil {
		return sess, nil
	}
	next := sess
	next.ScheduledAt = nil
	if err := m.persist(ctx, next, "schedule"); err != nil {
		return sess, err
	}
	return next, nil
}

// SaveVersion snapshots the current draft into the version archive. The
// name is required. The active version marker is not touched: only
// ApplyVersion marks a version active, so a freshly named snapshot stays
// immutable under later draft saves.
func (m *Manager) SaveVersion(ctx context.Context, sess EditorSession, name, description string) (EditorSession, model.Version, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sess, model.Version{}, &ValidationError{Field: "name", Reason: "version name is required"}
	}
	if sess.Draft == nil {
		return sess, model.Version{}, &ValidationError{Field: "draft", Reason: "nothing to snapshot"}
	}

	v := model.Version{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Page:        sess.Draft.Clone(),
		CreatedAt:   m.now(),
	}

	next := sess
	next.Versions = append(append([]model.Version(nil), sess.Versions...), v)

	if err := m.persist(ctx, next, "version"); err != nil {
		return sess, model.Version{}, err
	}
	m.logger.Info("version saved", "version", v.ID, "name", v.Name)
	return next, v, nil
}

// ApplyVersion restores a version's snapshot as the draft with a fresh
// updated-at timestamp and marks it active. The published page is
// untouched.
func (m *Manager) ApplyVersion(ctx context.Context, sess EditorSession, versionID string) (EditorSession, error) {
	v, ok := sess.FindVersion(versionID)
	if !ok {
		return sess, &NotFoundError{Kind: "version", ID: versionID}
	}

	draft := v.Page.Clone()
	draft.Status = model.PageStatusDraft
	draft.UpdatedAt = m.now()

	next := sess
	next.Draft = draft
	next.ActiveVersionID = v.ID
	next.State = StateEditing

	if err := m.persist(ctx, next, "version"); err != nil {
		return sess, err
	}
	return next, nil
}

// DeleteVersion removes a version from the archive. Deleting an id that
// does not exist is a no-op. Deleting the active version clears the
// active id; the draft keeps its content.
func (m *Manager) DeleteVersion(ctx context.Context, sess EditorSession, versionID string) (EditorSession, error) {
	if _, ok := sess.FindVersion(versionID); !ok {
		return sess, nil
	}

	kept := make([]model.Version, 0, len(sess.Versions)-1)
	for _, v := range sess.Versions {
		if v.ID != versionID {
			kept = append(kept, v)
		}
	}

	next := sess
	next.Versions = kept
	if sess.ActiveVersionID == versionID {
		next.ActiveVersionID = ""
	}

	if err := m.persist(ctx, next, "version"); err != nil {
		return sess, err
	}
	return next, nil
}

// ChangeTemplate clears the draft and returns to template selection,
// optionally preserving the current draft first. With an active version
// the draft is already tracked and a plain save suffices; otherwise a
// named snapshot is taken with saveName.
func (m *Manager) ChangeTemplate(ctx context.Context, sess EditorSession, withSave bool, saveName, saveDescription string) (EditorSession, error) {
	cur := sess
	if withSave && cur.Draft != nil {
		var err error
		if cur.ActiveVersionID != "" {
			cur, err = m.SaveDraft(ctx, cur, cur.Draft)
		} else {
			cur, _, err = m.SaveVersion(ctx, cur, saveName, saveDescription)
		}
		if err != nil {
			return sess, err
		}
	}

	next := cur
	next.Draft = nil
	next.ActiveVersionID = ""
	next.State = StateSelectingTemplate

	if err := m.persist(ctx, next, "template change"); err != nil {
		return sess, err
	}
	return next, nil
}

// persist writes the session's bundle into the stored configuration
// document, preserving the rest of the document.
func (m *Manager) persist(ctx context.Context, sess EditorSession, op string) error {
	doc, err := m.store.ReadConfig(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoDocument) {
			return &PersistenceError{Op: op, Err: err}
		}
		doc = &model.ConfigDocument{}
	}
	doc.CurrentLanding = sess.bundle()
	if err := m.store.WriteConfig(ctx, doc); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}
