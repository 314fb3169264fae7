// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/obuilder-go/internal/assist"
	"github.com/olegiv/obuilder-go/internal/cache"
	"github.com/olegiv/obuilder-go/internal/config"
	"github.com/olegiv/obuilder-go/internal/imaging"
	"github.com/olegiv/obuilder-go/internal/middleware"
	"github.com/olegiv/obuilder-go/internal/store"
)

// requestTimeout bounds every API request.
const requestTimeout = 30 * time.Second

// Deps bundles everything the router needs.
type Deps struct {
	Cfg       *config.Config
	DB        *sql.DB
	Sessions  *scs.SessionManager
	Bundles   *BundleService
	Pages     *cache.PublishedPages
	Events    *store.EventStore
	Uploads   *imaging.Processor
	Suggester *assist.Suggester
	Logger    *slog.Logger
}

// Routes builds the HTTP handler tree: the public published-page and
// health endpoints, the login endpoints behind rate limiting, and the
// editor API behind session auth and CSRF protection.
func Routes(d Deps) http.Handler {
	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	landing := NewLandingHandler(d.Bundles, d.Logger)
	versions := NewVersionHandler(d.Bundles, d.Logger)
	subPages := NewSubPageHandler(d.Bundles, d.Logger)
	links := NewLinkHandler(d.Bundles)
	templates := NewTemplateHandler()
	published := NewPublishedHandler(d.Bundles, d.Pages, d.Logger)
	uploads := NewUploadHandler(d.Uploads, d.Logger)
	assistant := NewAssistHandler(d.Suggester, d.Logger)
	authn := NewAuthHandler(d.Sessions, d.Cfg.EditorPasswordHash, protection, d.Logger)
	events := NewEventHandler(d.Events, d.Logger)
	health := NewHealthHandler(d.DB)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(d.Sessions.LoadAndSave)

	r.Get("/healthz", health.Health)

	// Uploaded media, cached for a week.
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Cfg.UploadsDir)))
	r.Handle("/uploads/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=604800")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		uploadsFS.ServeHTTP(w, req)
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/published", published.Root)
		r.Get("/published/{subPageSlug}", published.SubPage)

		r.Route("/auth", func(r chi.Router) {
			r.With(protection.Middleware()).Post("/login", authn.Login)
			r.Post("/logout", authn.Logout)
			r.Get("/status", authn.Status)
		})

		// Editor API: session auth plus CSRF protection.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEditor(d.Sessions))
			r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.Cfg.SessionSecret), d.Cfg.IsDevelopment())))

			r.Get("/templates", templates.List)
			r.Get("/events", events.List)

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

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/", uploads.Create)
				r.Delete("/{uploadID}", uploads.Delete)
			})

			r.Post("/assist", assistant.Suggest)
		})
	})

	return r
}
