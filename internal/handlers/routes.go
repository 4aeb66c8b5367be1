package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/logging"
)

// Router returns the HTTP routes with request ids, request logging, panic recovery and
// compression applied.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", h.Health)

	// Task API routes
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.AddTask)
		r.Patch("/", h.EditTask)
		r.Put("/", h.CompleteTask)
		r.Delete("/", h.RemoveTask)
		r.Get("/due", h.Due)
	})

	return r
}
