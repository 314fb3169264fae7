// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/store"
	"github.com/olegiv/obuilder-go/internal/template"
)

type fakeStore struct {
	doc      *model.ConfigDocument
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeStore) ReadConfig(_ context.Context) (*model.ConfigDocument, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.doc == nil {
		return nil, store.ErrNoDocument
	}
	return f.doc.Clone(), nil
}

func (f *fakeStore) WriteConfig(_ context.Context, doc *model.ConfigDocument) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.doc = doc.Clone()
	return nil
}

func newTestManager(t *testing.T, mode string) (*Manager, *fakeStore) {
	t.Helper()
	fs := &fakeStore{}
	m := NewManager(fs, mode, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return m, fs
}

func testDraft() *model.PageDocument {
	return &model.PageDocument{
		ID:     "page-1",
		Title:  "Home",
		Slug:   "home",
		Kind:   model.PageKindSingle,
		Status: model.PageStatusDraft,
		Components: []model.ComponentInstance{
			{ID: "c1", Type: model.ComponentTypeHero, Config: model.HeroConfig{Heading: "Hi"}, Order: 1, Visible: true},
		},
		Navigation: model.DefaultNavigation(),
	}
}

func editingSession(t *testing.T, m *Manager, fs *fakeStore) EditorSession {
	t.Helper()
	sess, err := m.SaveDraft(context.Background(), NewSession(), testDraft())
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	return sess
}

func TestLoadBundleEmptyStore(t *testing.T) {
	m, _ := newTestManager(t, VersionModeTrack)

	sess := m.LoadBundle(context.Background())
	if sess.State != StateSelectingTemplate {
		t.Errorf("State = %q, want %q", sess.State, StateSelectingTemplate)
	}
	if sess.Draft != nil {
		t.Error("Draft != nil for empty store")
	}
}

func TestLoadBundleReadErrorDegrades(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	fs.readErr = errors.New("disk gone")

	sess := m.LoadBundle(context.Background())
	if sess.State != StateSelectingTemplate {
		t.Errorf("State = %q, want %q", sess.State, StateSelectingTemplate)
	}
}

func TestLoadBundleRoundTrip(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)

	saved := editingSession(t, m, fs)

	loaded := m.LoadBundle(context.Background())
	if loaded.State != StateEditing {
		t.Fatalf("State = %q, want %q", loaded.State, StateEditing)
	}
	if loaded.Draft.ID != saved.Draft.ID {
		t.Errorf("Draft.ID = %q, want %q", loaded.Draft.ID, saved.Draft.ID)
	}
	if got := loaded.Draft.Components[0].Config.(model.HeroConfig).Heading; got != "Hi" {
		t.Errorf("Heading = %q, want %q", got, "Hi")
	}
}

func TestSelectTemplateDoesNotPersist(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	tpl, ok := template.FindTemplate("blank")
	if !ok {
		t.Fatal("blank template missing from catalog")
	}

	sess := m.SelectTemplate(NewSession(), tpl, model.PageKindSingle)
	if sess.State != StateEditing {
		t.Errorf("State = %q, want %q", sess.State, StateEditing)
	}
	if sess.Draft == nil {
		t.Fatal("Draft = nil after SelectTemplate")
	}
	if fs.writes != 0 {
		t.Errorf("writes = %d, want 0 (draft persists on first save)", fs.writes)
	}
}

func TestSelectTemplateDiscardsDraftAndActiveVersion(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)
	sess, _, err := m.SaveVersion(context.Background(), sess, "v1", "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}

	tpl, _ := template.FindTemplate("blank")
	next := m.SelectTemplate(sess, tpl, model.PageKindMulti)
	if next.ActiveVersionID != "" {
		t.Errorf("ActiveVersionID = %q, want empty", next.ActiveVersionID)
	}
	if next.Draft.ID == sess.Draft.ID {
		t.Error("Draft not replaced by new instantiation")
	}
	if len(next.Versions) != len(sess.Versions) {
		t.Errorf("Versions length changed: %d -> %d", len(sess.Versions), len(next.Versions))
	}
}

func TestSaveDraftNilDocument(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)

	_, err := m.SaveDraft(context.Background(), NewSession(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if fs.writes != 0 {
		t.Errorf("writes = %d, want 0", fs.writes)
	}
}

func TestSaveDraftWriteFailureLeavesSessionUnchanged(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	fs.writeErr = errors.New("disk full")
	changed := sess.Draft.Clone()
	changed.Title = "Changed"

	got, err := m.SaveDraft(context.Background(), sess, changed)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}
	if got.Draft.Title != "Home" {
		t.Errorf("Draft.Title = %q, want %q (session must be unchanged)", got.Draft.Title, "Home")
	}
	if fs.doc.CurrentLanding.Draft.Title != "Home" {
		t.Errorf("stored Draft.Title = %q, want %q", fs.doc.CurrentLanding.Draft.Title, "Home")
	}
}

func TestSaveDraftDoesNotAliasInput(t *testing.T) {
	m, _ := newTestManager(t, VersionModeTrack)

	doc := testDraft()
	sess, err := m.SaveDraft(context.Background(), NewSession(), doc)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	doc.Title = "Mutated afterwards"
	if sess.Draft.Title != "Home" {
		t.Errorf("Draft.Title = %q, want %q", sess.Draft.Title, "Home")
	}
}

func TestPublishLeavesDraftEditable(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	sess, err := m.Publish(context.Background(), sess)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if sess.Draft.Status != model.PageStatusDraft {
		t.Errorf("Draft.Status = %q, want %q", sess.Draft.Status, model.PageStatusDraft)
	}
	if sess.Published == nil || sess.Published.Status != model.PageStatusPublished {
		t.Fatalf("Published.Status = %v, want %q", sess.Published, model.PageStatusPublished)
	}
	if sess.PublishedAt == nil {
		t.Error("PublishedAt = nil after publish")
	}

	// Editing the draft afterwards must not leak into the published copy.
	sess.Draft.Title = "Draft edit"
	if sess.Published.Title != "Home" {
		t.Errorf("Published.Title = %q, want %q", sess.Published.Title, "Home")
	}
}

func TestPublishWithoutDraft(t *testing.T) {
	m, _ := newTestManager(t, VersionModeTrack)

	_, err := m.Publish(context.Background(), NewSession())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestPublishClearsSchedule(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	sess, err := m.SchedulePublish(context.Background(), sess, m.now().Add(time.Hour))
	if err != nil {
		t.Fatalf("SchedulePublish() error = %v", err)
	}
	if sess.ScheduledAt == nil {
		t.Fatal("ScheduledAt = nil after scheduling")
	}

	sess, err = m.Publish(context.Background(), sess)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if sess.ScheduledAt != nil {
		t.Errorf("ScheduledAt = %v, want nil after publish", sess.ScheduledAt)
	}
}

func TestSchedulePublishInPast(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	_, err := m.SchedulePublish(context.Background(), sess, m.now().Add(-time.Minute))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestSaveVersionEmptyName(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)
	writesBefore := fs.writes

	_, _, err := m.SaveVersion(context.Background(), sess, "   ", "desc")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if fs.writes != writesBefore {
		t.Errorf("writes = %d, want %d (no store interaction on validation failure)", fs.writes, writesBefore)
	}
}

func TestSaveVersionSnapshotIsIndependent(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	sess, v, err := m.SaveVersion(context.Background(), sess, "baseline", "first cut")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}
	if sess.ActiveVersionID != "" {
		t.Errorf("ActiveVersionID = %q, want empty (saving does not activate)", sess.ActiveVersionID)
	}

	sess.Draft.Title = "Edited after snapshot"
	snap, ok := sess.FindVersion(v.ID)
	if !ok {
		t.Fatal("saved version missing")
	}
	if snap.Page.Title != "Home" {
		t.Errorf("snapshot Title = %q, want %q", snap.Page.Title, "Home")
	}
}

func TestApplyVersionRoundTrip(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)
	sess, v, err := m.SaveVersion(context.Background(), sess, "baseline", "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}

	changed := sess.Draft.Clone()
	changed.Title = "Diverged"
	sess, err = m.SaveDraft(context.Background(), sess, changed)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	sess, err = m.ApplyVersion(context.Background(), sess, v.ID)
	if err != nil {
		t.Fatalf("ApplyVersion() error = %v", err)
	}
	if sess.Draft.Title != "Home" {
		// The version was never applied before the save, so the interim
		// draft save must not have touched its snapshot.
		t.Errorf("Draft.Title = %q, want %q", sess.Draft.Title, "Home")
	}
	if sess.ActiveVersionID != v.ID {
		t.Errorf("ActiveVersionID = %q, want %q", sess.ActiveVersionID, v.ID)
	}
	if !sess.Draft.UpdatedAt.Equal(m.now()) {
		t.Errorf("UpdatedAt = %v, want refreshed to %v", sess.Draft.UpdatedAt, m.now())
	}
}

func TestSaveVersionSurvivesLaterDraftSaves(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	sess, v, err := m.SaveVersion(context.Background(), sess, "before redesign", "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}

	changed := sess.Draft.Clone()
	changed.Title = "Totally Redesigned"
	sess, err = m.SaveDraft(context.Background(), sess, changed)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	snap, ok := sess.FindVersion(v.ID)
	if !ok {
		t.Fatal("named version missing after draft save")
	}
	if snap.Page.Title != "Home" {
		t.Errorf("snapshot Title = %q, want %q (named snapshot must not track)", snap.Page.Title, "Home")
	}
	if sess.ActiveVersionID != "" {
		t.Errorf("ActiveVersionID = %q, want empty", sess.ActiveVersionID)
	}
}

func TestApplyVersionFrozenRestoresSnapshot(t *testing.T) {
	m, fs := newTestManager(t, VersionModeFrozen)
	sess := editingSession(t, m, fs)
	sess, v, err := m.SaveVersion(context.Background(), sess, "baseline", "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}
	sess, err = m.ApplyVersion(context.Background(), sess, v.ID)
	if err != nil {
		t.Fatalf("ApplyVersion() error = %v", err)
	}

	changed := sess.Draft.Clone()
	changed.Title = "Diverged"
	sess, err = m.SaveDraft(context.Background(), sess, changed)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if sess.ActiveVersionID != "" {
		t.Fatalf("ActiveVersionID = %q, want empty in frozen mode after save", sess.ActiveVersionID)
	}

	sess, err = m.ApplyVersion(context.Background(), sess, v.ID)
	if err != nil {
		t.Fatalf("ApplyVersion() error = %v", err)
	}
	if sess.Draft.Title != "Home" {
		t.Errorf("Draft.Title = %q, want %q (frozen snapshot)", sess.Draft.Title, "Home")
	}
}

func TestApplyVersionUnknownID(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	_, err := m.ApplyVersion(context.Background(), sess, "nope")
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestDeleteVersionUnknownIDIsNoop(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)
	writesBefore := fs.writes

	got, err := m.DeleteVersion(context.Background(), sess, "nope")
	if err != nil {
		t.Fatalf("DeleteVersion() error = %v", err)
	}
	if fs.writes != writesBefore {
		t.Errorf("writes = %d, want %d", fs.writes, writesBefore)
	}
	if len(got.Versions) != len(sess.Versions) {
		t.Errorf("Versions length = %d, want %d", len(got.Versions), len(sess.Versions))
	}
}

func TestDeleteActiveVersionClearsActiveID(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)
	sess, v, err := m.SaveVersion(context.Background(), sess, "baseline", "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}
	sess, err = m.ApplyVersion(context.Background(), sess, v.ID)
	if err != nil {
		t.Fatalf("ApplyVersion() error = %v", err)
	}

	sess, err = m.DeleteVersion(context.Background(), sess, v.ID)
	if err != nil {
		t.Fatalf("DeleteVersion() error = %v", err)
	}
	if sess.ActiveVersionID != "" {
		t.Errorf("ActiveVersionID = %q, want empty", sess.ActiveVersionID)
	}
	if sess.Draft == nil || sess.Draft.Title != "Home" {
		t.Error("draft content lost when deleting its version")
	}
	if len(sess.Versions) != 0 {
		t.Errorf("Versions length = %d, want 0", len(sess.Versions))
	}
}

func TestTrackModeSaveRewritesActiveSnapshot(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)
	sess, v, err := m.SaveVersion(context.Background(), sess, "baseline", "")
	if err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}
	sess, err = m.ApplyVersion(context.Background(), sess, v.ID)
	if err != nil {
		t.Fatalf("ApplyVersion() error = %v", err)
	}

	changed := sess.Draft.Clone()
	changed.Title = "Tracked edit"
	sess, err = m.SaveDraft(context.Background(), sess, changed)
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	snap, ok := sess.FindVersion(v.ID)
	if !ok {
		t.Fatal("active version missing after save")
	}
	if snap.Page.Title != "Tracked edit" {
		t.Errorf("snapshot Title = %q, want %q", snap.Page.Title, "Tracked edit")
	}
	if sess.ActiveVersionID != v.ID {
		t.Errorf("ActiveVersionID = %q, want %q", sess.ActiveVersionID, v.ID)
	}
}

func TestChangeTemplateWithSaveNamesNewVersion(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	sess, err := m.ChangeTemplate(context.Background(), sess, true, "before switch", "")
	if err != nil {
		t.Fatalf("ChangeTemplate() error = %v", err)
	}
	if sess.State != StateSelectingTemplate {
		t.Errorf("State = %q, want %q", sess.State, StateSelectingTemplate)
	}
	if sess.Draft != nil {
		t.Error("Draft != nil after template change")
	}
	if len(sess.Versions) != 1 || sess.Versions[0].Name != "before switch" {
		t.Fatalf("Versions = %+v, want one named %q", sess.Versions, "before switch")
	}
	if sess.ActiveVersionID != "" {
		t.Errorf("ActiveVersionID = %q, want empty", sess.ActiveVersionID)
	}

	loaded := m.LoadBundle(context.Background())
	if loaded.Draft != nil {
		t.Error("cleared draft resurrected on reload")
	}
	if len(loaded.Versions) != 1 {
		t.Errorf("loaded Versions length = %d, want 1", len(loaded.Versions))
	}
}

func TestChangeTemplateWithSaveRequiresName(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	_, err := m.ChangeTemplate(context.Background(), sess, true, "", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestChangeTemplateWithoutSaveDropsDraft(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	sess := editingSession(t, m, fs)

	sess, err := m.ChangeTemplate(context.Background(), sess, false, "", "")
	if err != nil {
		t.Fatalf("ChangeTemplate() error = %v", err)
	}
	if len(sess.Versions) != 0 {
		t.Errorf("Versions length = %d, want 0", len(sess.Versions))
	}
	if sess.Draft != nil {
		t.Error("Draft != nil after discard")
	}
}

func TestPersistPreservesRestOfDocument(t *testing.T) {
	m, fs := newTestManager(t, VersionModeTrack)
	fs.doc = &model.ConfigDocument{
		Themes: map[string]model.Theme{"default": {ID: "default", Name: "Default"}},
	}

	_ = editingSession(t, m, fs)

	if _, ok := fs.doc.Themes["default"]; !ok {
		t.Error("themes dropped by lifecycle write")
	}
	if fs.doc.CurrentLanding == nil || fs.doc.CurrentLanding.Draft == nil {
		t.Error("bundle not written")
	}
}

func TestVersionListNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := EditorSession{Versions: []model.Version{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
	}}

	list := sess.VersionList()
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d].ID = %q, want %q", i, list[i].ID, id)
		}
	}
}
