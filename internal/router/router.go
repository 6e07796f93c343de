// Package router sets up all HTTP routes and middleware chains for the
// flyer editor.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flyerly/internal/handlers"
	"flyerly/internal/middleware"
	"flyerly/internal/session"
)

// Options configure the middleware stack.
type Options struct {
	Cookies session.Cookies
	// CSP is the Content-Security-Policy header value.
	CSP string
	// Limiter throttles the AI generator routes. Nil disables throttling.
	Limiter *middleware.RateLimiter
	// Static holds the files served under /static/. Nil serves nothing.
	Static fs.FS
	// AdminToken guards the operator routes under /admin. Empty leaves
	// them unmounted.
	AdminToken string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(flyer *handlers.Flyer, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.CSP))

	// Health check and assets: no session, no CSRF.
	r.Get("/health", healthHandler)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(opts.Static)))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(opts.Cookies))
		r.Use(middleware.NewCSRF(opts.Cookies.Secure))

		r.Get("/", flyer.Index)

		r.Route("/flyer", func(r chi.Router) {
			r.Delete("/", flyer.End)

			r.Get("/preview", flyer.Preview)
			r.Get("/editor", flyer.Editor)
			r.Post("/fields", flyer.UpdateField)
			r.Post("/tagline", flyer.SetTagline)
			r.Post("/reset", flyer.Reset)
			r.Post("/templates/{id}", flyer.ApplyTemplate)

			// Image
			r.Post("/image", flyer.UploadImage)
			r.Delete("/image", flyer.RemoveImage)
			r.Get("/image/controls", flyer.ImageControls)
			r.Get("/image/thumb", flyer.ImageThumb)

			// AI generators
			r.Route("/generate", func(r chi.Router) {
				if opts.Limiter != nil {
					r.Use(opts.Limiter.Middleware)
				}
				r.Post("/tagline", flyer.GenerateTagline)
				r.Post("/image", flyer.GenerateImage)
			})

			// Downloads
			r.Get("/export/image", flyer.ExportImage)
			r.Get("/export/pdf", flyer.ExportPDF)
			r.Get("/export/ics", flyer.ExportICS)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/flyer", flyer.State)
			r.Get("/templates", flyer.Templates)
			r.Get("/ai", flyer.AIStatus)
		})
	})

	// Operator routes: process-wide settings, bearer token only.
	if opts.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireOperator(opts.AdminToken))
			r.Get("/ai", flyer.AIStatus)
			r.Post("/ai/provider", flyer.SetProvider)
		})
	}

	return r
}

// staticHandler serves embedded assets with a short cache lifetime.
func staticHandler(files fs.FS) http.Handler {
	fileServer := http.FileServerFS(files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
