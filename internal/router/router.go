// Package router sets up all HTTP routes and middleware chains. Routes are
// grouped into the public JSON API, the admin-gated theme mutations, and
// the rate-limited generation endpoints.
package router

import (
	"github.com/go-chi/chi/v5"

	"babymorph/internal/handlers"
	"babymorph/internal/middleware"
)

// Deps bundles the handler groups the router wires up.
type Deps struct {
	Themes    *handlers.Themes
	Generate  *handlers.Generate
	Gallery   *handlers.Gallery
	Analytics *handlers.Analytics
	Auth      *handlers.Auth
	Health    *handlers.Health
	Uploads   *handlers.Uploads
}

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(d Deps, jwtSecret string, limiter middleware.Limiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Identity(jwtSecret))
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", d.Health.Get)

		// Accounts — open endpoints issuing bearer tokens.
		r.Post("/auth/register", d.Auth.Register)
		r.Post("/auth/login", d.Auth.Login)

		// Theme catalog — reads are public, mutations admin-only.
		r.Route("/themes", func(r chi.Router) {
			r.Get("/", d.Themes.List)
			r.Get("/{id}", d.Themes.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", d.Themes.Create)
				r.Put("/{id}", d.Themes.Update)
				r.Delete("/{id}", d.Themes.Delete)
			})
		})

		// Generation — each call holds a provider slot for tens of
		// seconds, so these are rate-limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter))
			r.Post("/generate/{themeId}", d.Generate.FromTheme)
			r.Post("/baby-transform", d.Generate.BabyTransform)
		})

		// Galleries and analytics.
		r.Get("/recent-images", d.Gallery.RecentImages)
		r.Get("/user-images/{userId}", d.Gallery.UserImages)
		r.Get("/baby-transforms/{userId}", d.Gallery.UserTransforms)
		r.Get("/analytics", d.Analytics.Get)
	})

	// Locally stored uploads (S3-less deployments).
	if d.Uploads != nil {
		r.Get("/uploads/*", d.Uploads.Serve)
	}

	return r
}
