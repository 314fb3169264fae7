// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/obuilder-go/internal/assist"
	"github.com/olegiv/obuilder-go/internal/imaging"
	"github.com/olegiv/obuilder-go/internal/lifecycle"
	"github.com/olegiv/obuilder-go/internal/model"
	"github.com/olegiv/obuilder-go/internal/subpage"
)

// newEditorRouter mounts the editor endpoints without auth middleware,
// mirroring the /api/landing subtree of Routes.
func newEditorRouter(svc *BundleService) http.Handler {
	logger := testLogger()
	landing := NewLandingHandler(svc, logger)
	versions := NewVersionHandler(svc, logger)
	subPages := NewSubPageHandler(svc, logger)
	links := NewLinkHandler(svc)

	r := chi.NewRouter()
	r.Route("/landing", func(r chi.Router) {
		r.Get("/", landing.State)
		r.Post("/template", landing.SelectTemplate)
		r.Post("/change-template", landing.ChangeTemplate)
		r.Put("/draft", landing.SaveDraft)
		r.Post("/publish", landing.Publish)
		r.Post("/schedule", landing.Schedule)
		r.Delete("/schedule", landing.ClearSchedule)
		r.Get("/links", links.Candidates)
		r.Get("/links/classify", links.Classify)
		r.Route("/versions", func(r chi.Router) {
			r.Get("/", versions.List)
			r.Post("/", versions.Save)
			r.Post("/{versionID}/apply", versions.Apply)
			r.Delete("/{versionID}", versions.Delete)
		})
		r.Route("/subpages", func(r chi.Router) {
			r.Post("/", subPages.Create)
			r.Patch("/{subPageID}", subPages.Update)
			r.Delete("/{subPageID}", subPages.Delete)
			r.Post("/{subPageID}/toggle", subPages.Toggle)
			r.Post("/{subPageID}/reorder", subPages.Reorder)
		})
	})
	return r
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestStateEndpoint(t *testing.T) {
	svc, _ := newTestService(t)
	h := newEditorRouter(svc)

	code, resp := doJSON(t, h, http.MethodGet, "/landing/", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp["state"] != lifecycle.StateSelectingTemplate {
		t.Errorf("state = %v, want %q", resp["state"], lifecycle.StateSelectingTemplate)
	}
}

func TestSelectTemplateEndpoint(t *testing.T) {
	svc, _ := newTestService(t)
	h := newEditorRouter(svc)

	code, _ := doJSON(t, h, http.MethodPost, "/landing/template",
		map[string]any{"template_id": "saas-starter", "page_kind": "triple"})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("bad page_kind status = %d, want 422", code)
	}

	code, _ = doJSON(t, h, http.MethodPost, "/landing/template",
		map[string]any{"template_id": "no-such"})
	if code != http.StatusNotFound {
		t.Errorf("unknown template status = %d, want 404", code)
	}

	code, resp := doJSON(t, h, http.MethodPost, "/landing/template",
		map[string]any{"template_id": "saas-starter"})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp["state"] != lifecycle.StateEditing {
		t.Errorf("state = %v, want %q", resp["state"], lifecycle.StateEditing)
	}
}

func TestPublishEndpointWithoutDraft(t *testing.T) {
	svc, _ := newTestService(t)
	h := newEditorRouter(svc)

	code, resp := doJSON(t, h, http.MethodPost, "/landing/publish", nil)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", code)
	}
	if resp["success"] != false {
		t.Errorf("success = %v, want false", resp["success"])
	}
}

func TestSaveDraftAndPublishFlow(t *testing.T) {
	svc, _ := newTestService(t)
	h := newEditorRouter(svc)

	if code, _ := doJSON(t, h, http.MethodPost, "/landing/template",
		map[string]any{"template_id": "saas-starter"}); code != http.StatusOK {
		t.Fatalf("select template status = %d", code)
	}

	draft := svc.Session().Draft
	draft.Title = "Launch"
	// The snapshot is a copy; the rename only lands through the save.
	code, _ := doJSON(t, h, http.MethodPut, "/landing/draft", map[string]any{"document": draft})
	if code != http.StatusOK {
		t.Fatalf("save draft status = %d, want 200", code)
	}

	code, resp := doJSON(t, h, http.MethodPost, "/landing/publish", nil)
	if code != http.StatusOK {
		t.Fatalf("publish status = %d, want 200", code)
	}
	if resp["has_published"] != true {
		t.Errorf("has_published = %v, want true", resp["has_published"])
	}
	if resp["published_at"] == nil {
		t.Error("published_at missing after publish")
	}
}

func TestScheduleEndpointValidation(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)
	h := newEditorRouter(svc)

	code, _ := doJSON(t, h, http.MethodPost, "/landing/schedule", map[string]any{})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("missing scheduled_at status = %d, want 422", code)
	}

	code, _ = doJSON(t, h, http.MethodPost, "/landing/schedule",
		map[string]any{"scheduled_at": "2020-01-01T00:00:00Z"})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("past scheduled_at status = %d, want 422", code)
	}

	code, resp := doJSON(t, h, http.MethodPost, "/landing/schedule",
		map[string]any{"scheduled_at": "2999-01-01T00:00:00Z"})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp["scheduled_at"] == nil {
		t.Error("scheduled_at missing from response")
	}

	if code, _ = doJSON(t, h, http.MethodDelete, "/landing/schedule", nil); code != http.StatusOK {
		t.Fatalf("clear schedule status = %d, want 200", code)
	}
	if got := svc.Session().ScheduledAt; got != nil {
		t.Errorf("ScheduledAt = %v after clear, want nil", got)
	}
}

func TestVersionEndpoints(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)
	h := newEditorRouter(svc)

	code, _ := doJSON(t, h, http.MethodPost, "/landing/versions/", map[string]any{"name": "  "})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("blank name status = %d, want 422", code)
	}

	code, resp := doJSON(t, h, http.MethodPost, "/landing/versions/",
		map[string]any{"name": "Before redesign"})
	if code != http.StatusOK {
		t.Fatalf("save version status = %d, want 200", code)
	}
	v, ok := resp["version"].(map[string]any)
	if !ok {
		t.Fatalf("version missing from response: %v", resp)
	}
	versionID := v["id"].(string)

	code, resp = doJSON(t, h, http.MethodGet, "/landing/versions/", nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", code)
	}
	if list, ok := resp["versions"].([]any); !ok || len(list) != 1 {
		t.Errorf("versions = %v, want one entry", resp["versions"])
	}

	code, _ = doJSON(t, h, http.MethodPost, "/landing/versions/no-such/apply", nil)
	if code != http.StatusNotFound {
		t.Errorf("apply unknown status = %d, want 404", code)
	}

	code, _ = doJSON(t, h, http.MethodPost, "/landing/versions/"+versionID+"/apply", nil)
	if code != http.StatusOK {
		t.Errorf("apply status = %d, want 200", code)
	}

	code, resp = doJSON(t, h, http.MethodDelete, "/landing/versions/"+versionID, nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", code)
	}
	if resp["active_version_id"] != "" {
		t.Errorf("active_version_id = %v after deleting active version, want empty", resp["active_version_id"])
	}
}

func TestSubPageEndpoints(t *testing.T) {
	svc := editingService(t, model.PageKindMulti)
	h := newEditorRouter(svc)

	code, resp := doJSON(t, h, http.MethodPost, "/landing/subpages/",
		map[string]any{"title": "Pricing"})
	if code != http.StatusOK {
		t.Fatalf("create status = %d, want 200", code)
	}
	sp, ok := resp["sub_page"].(map[string]any)
	if !ok {
		t.Fatalf("sub_page missing from response: %v", resp)
	}
	id := sp["id"].(string)

	code, _ = doJSON(t, h, http.MethodPatch, "/landing/subpages/"+id,
		map[string]any{"slug": "Not A Slug"})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("invalid slug status = %d, want 422", code)
	}

	code, _ = doJSON(t, h, http.MethodPost, "/landing/subpages/"+id+"/reorder",
		map[string]any{"direction": "sideways"})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("bad direction status = %d, want 422", code)
	}

	code, _ = doJSON(t, h, http.MethodPost, "/landing/subpages/"+id+"/toggle", nil)
	if code != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200", code)
	}
	if got := svc.Session().Draft.FindSubPage(id); got == nil || got.Visible {
		t.Error("sub-page still visible after toggle")
	}

	code, _ = doJSON(t, h, http.MethodDelete, "/landing/subpages/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", code)
	}
	if got := svc.Session().Draft.FindSubPage(id); got != nil {
		t.Error("sub-page still present after delete")
	}

	code, _ = doJSON(t, h, http.MethodDelete, "/landing/subpages/"+id, nil)
	if code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", code)
	}
}

func TestLinkEndpoints(t *testing.T) {
	svc := editingService(t, model.PageKindSingle)
	h := newEditorRouter(svc)

	code, resp := doJSON(t, h, http.MethodGet, "/landing/links", nil)
	if code != http.StatusOK {
		t.Fatalf("candidates status = %d, want 200", code)
	}
	if list, ok := resp["candidates"].([]any); !ok || len(list) == 0 {
		t.Errorf("candidates = %v, want a non-empty list", resp["candidates"])
	}

	code, _ = doJSON(t, h, http.MethodGet, "/landing/links/classify", nil)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("missing link status = %d, want 422", code)
	}

	code, resp = doJSON(t, h, http.MethodGet, "/landing/links/classify?link=%23hero-1", nil)
	if code != http.StatusOK {
		t.Fatalf("classify status = %d, want 200", code)
	}
	if resp["kind"] != "anchor" {
		t.Errorf("kind = %v, want anchor", resp["kind"])
	}
}

func TestPublishedEndpoints(t *testing.T) {
	st := &memStore{}
	m := lifecycle.NewManager(st, lifecycle.VersionModeTrack, testLogger())
	pages := testPages(t)
	ctx := context.Background()
	svc := NewBundleService(ctx, m, pages, testLogger())

	published := NewPublishedHandler(svc, pages, testLogger())
	r := chi.NewRouter()
	r.Get("/published", published.Root)
	r.Get("/published/{subPageSlug}", published.SubPage)

	code, _ := doJSON(t, r, http.MethodGet, "/published", nil)
	if code != http.StatusNotFound {
		t.Errorf("status = %d before publish, want 404", code)
	}

	sess, err := svc.SelectTemplate("saas-starter", model.PageKindMulti)
	if err != nil {
		t.Fatalf("SelectTemplate() error = %v", err)
	}
	if _, err := svc.SaveDraft(ctx, sess.Draft); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if _, _, err := svc.CreateSubPage(ctx, subpage.CreateParams{Title: "Pricing"}); err != nil {
		t.Fatalf("CreateSubPage() error = %v", err)
	}
	if _, err := svc.Publish(ctx); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	code, resp := doJSON(t, r, http.MethodGet, "/published", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d after publish, want 200", code)
	}
	page, ok := resp["page"].(map[string]any)
	if !ok {
		t.Fatalf("page missing from response: %v", resp)
	}
	if comps, ok := page["components"].([]any); !ok || len(comps) == 0 {
		t.Error("published page has no components")
	}
	if nav, ok := page["pages"].([]any); !ok || len(nav) != 1 {
		t.Errorf("pages = %v, want one nav entry", page["pages"])
	}

	code, _ = doJSON(t, r, http.MethodGet, "/published/pricing", nil)
	if code != http.StatusOK {
		t.Errorf("sub-page status = %d, want 200", code)
	}
	code, _ = doJSON(t, r, http.MethodGet, "/published/no-such", nil)
	if code != http.StatusNotFound {
		t.Errorf("unknown sub-page status = %d, want 404", code)
	}
}

func TestAssistEndpointDisabled(t *testing.T) {
	h := NewAssistHandler(assist.New("", "gpt-4o-mini"), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/assist", bytes.NewBufferString(`{"brief":"x"}`))
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestUploadEndpointRejectsNonImages(t *testing.T) {
	uploads := NewUploadHandler(imaging.NewProcessor(t.TempDir()), testLogger())
	r := chi.NewRouter()
	r.Post("/uploads", uploads.Create)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := fw.Write([]byte("just text")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}
