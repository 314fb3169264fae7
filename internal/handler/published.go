// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/obuilder-go/internal/cache"
	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/render"
)

// rootPageKey is the cache key of the published root page. Sub-pages are
// keyed under sub/ so a sub-page slug can never collide with it.
const rootPageKey = "index"

// PublishedHandler serves the public published-page payloads the
// renderer consumes. Responses are cached until the next publish.
type PublishedHandler struct {
	svc    *BundleService
	pages  *cache.PublishedPages
	logger *slog.Logger
}

// NewPublishedHandler creates a PublishedHandler.
func NewPublishedHandler(svc *BundleService, pages *cache.PublishedPages, logger *slog.Logger) *PublishedHandler {
	return &PublishedHandler{svc: svc, pages: pages, logger: logger}
}

// navEntry is one sub-page link in the published navigation.
type navEntry struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// publishedPage is the payload of one published page, root or sub.
type publishedPage struct {
	Title       string                     `json:"title"`
	Slug        string                     `json:"slug"`
	ThemeID     string                     `json:"theme_id,omitempty"`
	Kind        string                     `json:"kind"`
	Navigation  *model.NavigationSettings  `json:"navigation,omitempty"`
	Pages       []navEntry                 `json:"pages,omitempty"`
	Components  []render.RenderedComponent `json:"components"`
	PublishedAt *time.Time                 `json:"published_at,omitempty"`
}

// Root serves the published root page.
// GET /api/published
func (h *PublishedHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, rootPageKey, "")
}

// SubPage serves a published sub-page by slug. Hidden sub-pages are not
// served.
// GET /api/published/{subPageSlug}
func (h *PublishedHandler) SubPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "subPageSlug")
	h.serve(w, r, "sub/"+slug, slug)
}

func (h *PublishedHandler) serve(w http.ResponseWriter, r *http.Request, cacheKey, subSlug string) {
	ctx := r.Context()

	var cached publishedPage
	if h.pages.Get(ctx, cacheKey, &cached) {
		writeJSONSuccess(w, map[string]any{"page": cached})
		return
	}

	doc, publishedAt := h.svc.PublishedDocument()
	if doc == nil {
		writeJSONError(w, http.StatusNotFound, "no published page")
		return
	}

	title := doc.Title
	components := doc.Components
	if subSlug != "" {
		sp := findVisibleSubPage(doc.SubPages, subSlug)
		if sp == nil {
			writeJSONError(w, http.StatusNotFound, "page not found")
			return
		}
		title = sp.Title
		components = sp.Components
	}

	rendered, err := render.PreparePage(components)
	if err != nil {
		h.logger.Error("rendering published page failed", "slug", subSlug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "rendering page failed")
		return
	}

	page := publishedPage{
		Title:       title,
		Slug:        doc.Slug,
		ThemeID:     doc.ThemeID,
		Kind:        doc.Kind,
		Navigation:  doc.Navigation,
		Pages:       navEntries(doc.SubPages),
		Components:  rendered,
		PublishedAt: publishedAt,
	}

	h.pages.Set(ctx, cacheKey, page)
	writeJSONSuccess(w, map[string]any{"page": page})
}

// navEntries returns the visible sub-pages in display order.
func navEntries(subPages []model.SubPage) []navEntry {
	sorted := make([]model.SubPage, len(subPages))
	copy(sorted, subPages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	var out []navEntry
	for _, sp := range sorted {
		if sp.Visible {
			out = append(out, navEntry{Slug: sp.Slug, Title: sp.Title, Icon: sp.Icon})
		}
	}
	return out
}

func findVisibleSubPage(subPages []model.SubPage, slug string) *model.SubPage {
	for i := range subPages {
		if subPages[i].Slug == slug && subPages[i].Visible {
			return &subPages[i]
		}
	}
	return nil
}
