// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/olegiv/obuilder-go/internal/cache"
	"github.com/olegiv/obuilder-go/internal/lifecycle"
	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/store"
	"github.com/olegiv/obuilder-go/internal/subpage"
)

// memStore is an in-memory lifecycle.Store.
type memStore struct {
	doc *model.ConfigDocument
}

func (s *memStore) ReadConfig(_ context.Context) (*model.ConfigDocument, error) {
	if s.doc == nil {
		return nil, store.ErrNoDocument
	}
	return s.doc.Clone(), nil
}

func (s *memStore) WriteConfig(_ context.Context, doc *model.ConfigDocument) error {
	s.doc = doc.Clone()
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPages(t *testing.T) *cache.PublishedPages {
	t.Helper()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return cache.NewPublishedPages(c, time.Minute)
}

func newTestService(t *testing.T) (*BundleService, *memStore) {
	t.Helper()
	st := &memStore{}
	m := lifecycle.NewManager(st, lifecycle.VersionModeTrack, testLogger())
	return NewBundleService(context.Background(), m, testPages(t), testLogger()), st
}

// editingService returns a service with a saved draft from the SaaS
// template.
func editingService(t *testing.T, pageKind string) *BundleService {
	t.Helper()
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.SelectTemplate("saas-starter", pageKind)
	if err != nil {
		t.Fatalf("SelectTemplate() error = %v", err)
	}
	if _, err := svc.SaveDraft(ctx, sess.Draft); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	return svc
}

func TestSelectTemplateUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SelectTemplate("no-such-template", model.PageKindSingle)
	var notFound *lifecycle.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("SelectTemplate() error = %v, want NotFoundError", err)
	}
}

func TestSelectTemplateStartsEditing(t *testing.T) {
	svc, st := newTestService(t)

	sess, err := svc.SelectTemplate("saas-starter", model.PageKindSingle)
	if err != nil {
		t.Fatalf("SelectTemplate() error = %v", err)
	}
	if sess.State != lifecycle.StateEditing {
		t.Errorf("State = %q, want %q", sess.State, lifecycle.StateEditing)
	}
	if sess.Draft == nil || len(sess.Draft.Components) == 0 {
		t.Fatal("draft not instantiated from template")
	}
	if st.doc != nil {
		t.Error("template selection must not persist until the first save")
	}
}

func TestSaveDraftPersists(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)
	ctx := context.Background()

	draft := svc.Session().Draft.Clone()
	draft.Title = "Renamed"
	if _, err := svc.SaveDraft(ctx, draft); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	if got := svc.Session().Draft.Title; got != "Renamed" {
		t.Errorf("Draft.Title = %q, want %q", got, "Renamed")
	}
}

func TestPublishInvalidatesPageCache(t *testing.T) {
	st := &memStore{}
	m := lifecycle.NewManager(st, lifecycle.VersionModeTrack, testLogger())
	pages := testPages(t)
	ctx := context.Background()
	svc := NewBundleService(ctx, m, pages, testLogger())

	sess, err := svc.SelectTemplate("saas-starter", model.PageKindSingle)
	if err != nil {
		t.Fatalf("SelectTemplate() error = %v", err)
	}
	if _, err := svc.SaveDraft(ctx, sess.Draft); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	pages.Set(ctx, rootPageKey, publishedPage{Title: "stale"})

	if _, err := svc.Publish(ctx); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var cached publishedPage
	if pages.Get(ctx, rootPageKey, &cached) {
		t.Error("published-page cache still holds a payload after publish")
	}
}

func TestPublishDueSchedule(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)
	ctx := context.Background()

	at := time.Now().Add(time.Hour)
	if _, err := svc.SchedulePublish(ctx, at); err != nil {
		t.Fatalf("SchedulePublish() error = %v", err)
	}

	published, err := svc.PublishDueSchedule(ctx, time.Now())
	if err != nil {
		t.Fatalf("PublishDueSchedule() error = %v", err)
	}
	if published {
		t.Fatal("published before the scheduled time")
	}

	published, err = svc.PublishDueSchedule(ctx, at.Add(time.Minute))
	if err != nil {
		t.Fatalf("PublishDueSchedule() error = %v", err)
	}
	if !published {
		t.Fatal("did not publish at the scheduled time")
	}

	sess := svc.Session()
	if sess.Published == nil {
		t.Error("Published = nil after scheduled publish")
	}
	if sess.ScheduledAt != nil {
		t.Error("ScheduledAt not cleared after scheduled publish")
	}
}

func TestPublishDueScheduleNoSchedule(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)

	published, err := svc.PublishDueSchedule(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("PublishDueSchedule() error = %v", err)
	}
	if published {
		t.Error("published without a schedule")
	}
}

func TestSubPageOpsRequireDraft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var validation *lifecycle.ValidationError
	if _, _, err := svc.CreateSubPage(ctx, subpage.CreateParams{Title: "Pricing"}); !errors.As(err, &validation) {
		t.Errorf("CreateSubPage() error = %v, want ValidationError", err)
	}
	if _, err := svc.ToggleSubPage(ctx, "some-id"); !errors.As(err, &validation) {
		t.Errorf("ToggleSubPage() error = %v, want ValidationError", err)
	}
}

func TestCreateSubPagePersistsDraft(t *testing.T) {
	svc := editingService(t, model.PageKindMulti)
	ctx := context.Background()

	sess, sp, err := svc.CreateSubPage(ctx, subpage.CreateParams{Title: "Pricing"})
	if err != nil {
		t.Fatalf("CreateSubPage() error = %v", err)
	}
	if sp.Slug != "pricing" {
		t.Errorf("Slug = %q, want %q", sp.Slug, "pricing")
	}
	if len(sess.Draft.SubPages) != 1 {
		t.Fatalf("SubPages = %d, want 1", len(sess.Draft.SubPages))
	}
	if got := svc.Session().Draft.FindSubPage(sp.ID); got == nil {
		t.Error("created sub-page missing from the session draft")
	}
}

func TestLinkCandidates(t *testing.T) {
	svc, _ := newTestService(t)

	if got := svc.LinkCandidates(); got != nil {
		t.Errorf("LinkCandidates() = %v without a draft, want nil", got)
	}

	svc = editingService(t, model.PageKindSingle)
	candidates := svc.LinkCandidates()
	if len(candidates) == 0 {
		t.Fatal("no candidates for a template draft")
	}
	for _, c := range candidates {
		if c.Group == "sections" && c.Value[0] != '#' {
			t.Errorf("section candidate %q is not an anchor", c.Value)
		}
	}
}

func TestSessionVersionsAreCopies(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)

	if _, _, err := svc.SaveVersion(context.Background(), "baseline", ""); err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}

	snap := svc.Session()
	if len(snap.Versions) != 1 {
		t.Fatalf("Versions length = %d, want 1", len(snap.Versions))
	}
	want := snap.Versions[0].Page.Title
	snap.Versions[0].Page.Title = "mutated"

	if got := svc.Session().Versions[0].Page.Title; got != want {
		t.Errorf("version snapshot Title = %q after mutating an earlier snapshot, want %q", got, want)
	}
}

func TestPublishedDocumentIsACopy(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)
	ctx := context.Background()

	if _, err := svc.Publish(ctx); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	doc, publishedAt := svc.PublishedDocument()
	if doc == nil || publishedAt == nil {
		t.Fatal("PublishedDocument() returned nil after publish")
	}
	doc.Title = "mutated"
	if got, _ := svc.PublishedDocument(); got.Title == "mutated" {
		t.Error("mutating the returned document leaked into the session")
	}
}
