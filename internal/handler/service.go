// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/obuilder-go/internal/cache"
	"github.com/olegiv/obuilder-go/internal/lifecycle"
	"github.com/olegiv/obuilder-go/internal/linkres"
	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/subpage"
	"github.com/olegiv/obuilder-go/internal/template"
)

// BundleService serializes all access to the landing bundle. There is a
// single bundle per installation; HTTP handlers and the scheduler both
// go through this facade so draft edits, publishes and scheduled
// publishes cannot interleave.
type BundleService struct {
	mu      sync.Mutex
	manager *lifecycle.Manager
	sess    lifecycle.EditorSession
	pages   *cache.PublishedPages
	logger  *slog.Logger
}

// NewBundleService loads the stored bundle and wraps it in a serialized
// facade.
func NewBundleService(ctx context.Context, manager *lifecycle.Manager, pages *cache.PublishedPages, logger *slog.Logger) *BundleService {
	return &BundleService{
		manager: manager,
		sess:    manager.LoadBundle(ctx),
		pages:   pages,
		logger:  logger,
	}
}

// Session returns a snapshot of the current editor session. The draft,
// published document and version snapshots are copies; mutating them
// never reaches the service's state.
func (b *BundleService) Session() lifecycle.EditorSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := b.sess
	snap.Draft = b.sess.Draft.Clone()
	snap.Published = b.sess.Published.Clone()
	if len(b.sess.Versions) > 0 {
		snap.Versions = make([]model.Version, len(b.sess.Versions))
		for i, v := range b.sess.Versions {
			snap.Versions[i] = v.Clone()
		}
	}
	return snap
}

// SelectTemplate instantiates a catalog template as the new draft.
func (b *BundleService) SelectTemplate(templateID, pageKind string) (lifecycle.EditorSession, error) {
	tpl, ok := template.FindTemplate(templateID)
	if !ok {
		return lifecycle.EditorSession{}, &lifecycle.NotFoundError{Kind: "template", ID: templateID}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sess = b.manager.SelectTemplate(b.sess, tpl, pageKind)
	return b.sess, nil
}

// SaveDraft stores doc as the current draft.
func (b *BundleService) SaveDraft(ctx context.Context, doc *model.PageDocument) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveDraftLocked(ctx, doc)
}

func (b *BundleService) saveDraftLocked(ctx context.Context, doc *model.PageDocument) (lifecycle.EditorSession, error) {
	next, err := b.manager.SaveDraft(ctx, b.sess, doc)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	return b.sess, nil
}

// Publish copies the draft into the published slot and drops all cached
// published-page payloads.
func (b *BundleService) Publish(ctx context.Context) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.publishLocked(ctx)
}

func (b *BundleService) publishLocked(ctx context.Context) (lifecycle.EditorSession, error) {
	next, err := b.manager.Publish(ctx, b.sess)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	b.pages.Invalidate(ctx)
	return b.sess, nil
}

// SchedulePublish records a future publish time for the scheduler.
func (b *BundleService) SchedulePublish(ctx context.Context, at time.Time) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.manager.SchedulePublish(ctx, b.sess, at)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	return b.sess, nil
}

// ClearSchedule cancels a pending scheduled publish.
func (b *BundleService) ClearSchedule(ctx context.Context) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.manager.ClearSchedule(ctx, b.sess)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	return b.sess, nil
}

// PublishDueSchedule publishes the draft if a scheduled publish is due
// at now. Implements the scheduler's bundle-service contract.
func (b *BundleService) PublishDueSchedule(ctx context.Context, now time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sess.ScheduledAt == nil || b.sess.ScheduledAt.After(now) {
		return false, nil
	}
	if _, err := b.publishLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// SaveVersion snapshots the draft as a named version.
func (b *BundleService) SaveVersion(ctx context.Context, name, description string) (lifecycle.EditorSession, model.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, v, err := b.manager.SaveVersion(ctx, b.sess, name, description)
	if err != nil {
		return b.sess, model.Version{}, err
	}
	b.sess = next
	return b.sess, v, nil
}

// ApplyVersion restores a version's snapshot as the draft.
func (b *BundleService) ApplyVersion(ctx context.Context, versionID string) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.manager.ApplyVersion(ctx, b.sess, versionID)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	return b.sess, nil
}

// DeleteVersion removes a version from the archive.
func (b *BundleService) DeleteVersion(ctx context.Context, versionID string) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.manager.DeleteVersion(ctx, b.sess, versionID)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	return b.sess, nil
}

// ChangeTemplate returns to template selection, optionally preserving
// the current draft first.
func (b *BundleService) ChangeTemplate(ctx context.Context, withSave bool, saveName, saveDescription string) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.manager.ChangeTemplate(ctx, b.sess, withSave, saveName, saveDescription)
	if err != nil {
		return b.sess, err
	}
	b.sess = next
	return b.sess, nil
}

// CreateSubPage adds a sub-page to the draft and saves it.
func (b *BundleService) CreateSubPage(ctx context.Context, p subpage.CreateParams) (lifecycle.EditorSession, model.SubPage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sess.Draft == nil {
		return b.sess, model.SubPage{}, errNoDraft()
	}
	doc, sp, err := subpage.CreateSubPage(b.sess.Draft, p)
	if err != nil {
		return b.sess, model.SubPage{}, err
	}
	sess, err := b.saveDraftLocked(ctx, doc)
	if err != nil {
		return b.sess, model.SubPage{}, err
	}
	return sess, sp, nil
}

// UpdateSubPage patches a sub-page on the draft and saves it.
func (b *BundleService) UpdateSubPage(ctx context.Context, id string, patch subpage.Patch) (lifecycle.EditorSession, error) {
	return b.subPageOp(ctx, func(doc *model.PageDocument) (*model.PageDocument, error) {
		return subpage.UpdateSubPage(doc, id, patch)
	})
}

// DeleteSubPage removes a sub-page from the draft and saves it.
func (b *BundleService) DeleteSubPage(ctx context.Context, id string) (lifecycle.EditorSession, error) {
	return b.subPageOp(ctx, func(doc *model.PageDocument) (*model.PageDocument, error) {
		return subpage.DeleteSubPage(doc, id)
	})
}

// ToggleSubPage flips a sub-page's visibility on the draft and saves it.
func (b *BundleService) ToggleSubPage(ctx context.Context, id string) (lifecycle.EditorSession, error) {
	return b.subPageOp(ctx, func(doc *model.PageDocument) (*model.PageDocument, error) {
		return subpage.ToggleVisibility(doc, id)
	})
}

// ReorderSubPage moves a sub-page one position up or down on the draft
// and saves it.
func (b *BundleService) ReorderSubPage(ctx context.Context, id, direction string) (lifecycle.EditorSession, error) {
	return b.subPageOp(ctx, func(doc *model.PageDocument) (*model.PageDocument, error) {
		return subpage.Reorder(doc, id, direction)
	})
}

// subPageOp runs a sub-page transformation against the draft and saves
// the result, all under the bundle lock.
func (b *BundleService) subPageOp(ctx context.Context, op func(*model.PageDocument) (*model.PageDocument, error)) (lifecycle.EditorSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sess.Draft == nil {
		return b.sess, errNoDraft()
	}
	doc, err := op(b.sess.Draft)
	if err != nil {
		return b.sess, err
	}
	return b.saveDraftLocked(ctx, doc)
}

// LinkCandidates builds the link-target suggestions for the draft.
func (b *BundleService) LinkCandidates() []linkres.Candidate {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sess.Draft == nil {
		return nil
	}
	d := b.sess.Draft
	return linkres.Candidates(d.Components, d.SubPages, d.Slug, d.IsMultiPage())
}

// PublishedDocument returns a copy of the published page, or nil when
// nothing has been published.
func (b *BundleService) PublishedDocument() (*model.PageDocument, *time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sess.Published.Clone(), b.sess.PublishedAt
}

func errNoDraft() error {
	return &lifecycle.ValidationError{Field: "draft", Reason: "no draft to edit"}
}
