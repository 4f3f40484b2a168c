// Package api exposes the GitHub insights over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/gateway"
	"github.com/naka-gawa/github-insights/internal/lib/sl"
)

// Error messages returned to callers. Upstream details are only logged.
const (
	ErrMsgProfile         = "Failed to fetch profile data"
	ErrMsgLanguages       = "Failed to fetch language data"
	ErrMsgRepositories    = "Failed to fetch repositories"
	ErrMsgRecommendations = "Failed to generate recommendations"
	ErrMsgPinned          = "Failed to fetch pinned repositories"
	ErrMsgStats           = "Failed to fetch repository statistics"
)

type insightsService interface {
	Profile(ctx context.Context, username string) (*domain.ProfileSummary, error)
	Languages(ctx context.Context, username string) (domain.LanguageTally, error)
	Repositories(ctx context.Context, username string) ([]domain.RepositorySummary, error)
	Recommendations(ctx context.Context, username string) ([]string, error)
	PinnedRepositories(ctx context.Context, username string) ([]domain.PinnedRepository, error)
	RepositoryStats(ctx context.Context, username string) (*domain.RepositoryStats, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the /api/github endpoints.
type Handler struct {
	log     *slog.Logger
	service insightsService
}

func NewHandler(log *slog.Logger, s insightsService) *Handler {
	return &Handler{
		log:     log,
		service: s,
	}
}

// GetProfile handles GET /api/github/profile/{username}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), chi.URLParam(r, "username"))
	h.respond(w, r, "api.GetProfile", ErrMsgProfile, profile, err)
}

// GetLanguages handles GET /api/github/languages/{username}
func (h *Handler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.Languages(r.Context(), chi.URLParam(r, "username"))
	h.respond(w, r, "api.GetLanguages", ErrMsgLanguages, tally, err)
}

// GetRepositories handles GET /api/github/repos/{username}
func (h *Handler) GetRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.service.Repositories(r.Context(), chi.URLParam(r, "username"))
	h.respond(w, r, "api.GetRepositories", ErrMsgRepositories, repos, err)
}

// GetRecommendations handles GET /api/github/recommendations/{username}
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	recommendations, err := h.service.Recommendations(r.Context(), chi.URLParam(r, "username"))
	h.respond(w, r, "api.GetRecommendations", ErrMsgRecommendations, recommendations, err)
}

// GetPinned handles GET /api/github/pinned/{username}
func (h *Handler) GetPinned(w http.ResponseWriter, r *http.Request) {
	pinned, err := h.service.PinnedRepositories(r.Context(), chi.URLParam(r, "username"))
	h.respond(w, r, "api.GetPinned", ErrMsgPinned, pinned, err)
}

// GetStats handles GET /api/github/stats/{username}
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.RepositoryStats(r.Context(), chi.URLParam(r, "username"))
	h.respond(w, r, "api.GetStats", ErrMsgStats, stats, err)
}

// respond writes v as JSON, or on err the fixed failure message with the
// upstream status (500 when there is none).
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op, failMsg string, v any, err error) {
	if err == nil {
		render.JSON(w, r, v)
		return
	}

	status := gateway.StatusOf(err)
	h.log.Error("upstream request failed",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("username", chi.URLParam(r, "username")),
		slog.Int("status", status),
		sl.Err(err),
	)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: failMsg})
}

// Healthcheck handles GET /api/health
func Healthcheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
