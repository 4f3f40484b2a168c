package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(log *slog.Logger, h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware)

	r.Get("/api/health", Healthcheck())

	r.Route("/api/github", func(r chi.Router) {
		r.Get("/profile/{username}", h.GetProfile)
		r.Get("/languages/{username}", h.GetLanguages)
		r.Get("/repos/{username}", h.GetRepositories)
		r.Get("/recommendations/{username}", h.GetRecommendations)
		r.Get("/pinned/{username}", h.GetPinned)
		r.Get("/stats/{username}", h.GetStats)
	})

	return r
}
