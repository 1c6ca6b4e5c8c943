package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/buildory/phodo-admin/internal/models"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for profile listing logic
type UserService interface {
	List(ctx context.Context, params models.UserListParams) (*models.ListResult[*models.Profile], error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Stats(ctx context.Context, id string) (*models.UserShootingStats, error)
	RecentShootings(ctx context.Context, id string, limit int) ([]*models.Shooting, error)
}

// UserHandler handles user-profile HTTP requests
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers handles GET /api/users
// Accepts page, limit, search, role and status query params.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if role := q.Get("role"); role != "" {
		if _, err := models.ParseRole(role); err != nil {
			pkghttp.WriteBadRequest(w, "invalid role filter")
			return
		}
	}
	if status := q.Get("status"); status != "" {
		if _, err := models.ParseStatus(status); err != nil {
			pkghttp.WriteBadRequest(w, "invalid status filter")
			return
		}
	}

	params := models.UserListParams{
		Page:   queryInt(r, "page", models.DefaultPage),
		Limit:  queryInt(r, "limit", models.DefaultLimit),
		Search: q.Get("search"),
		Role:   q.Get("role"),
		Status: q.Get("status"),
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve users")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "user id is required")
		return
	}

	profile, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to retrieve user")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// GetUserStats handles GET /api/users/{id}/stats
func (h *UserHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to retrieve user stats")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, stats)
}

// GetUserShootings handles GET /api/users/{id}/shootings
func (h *UserHandler) GetUserShootings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	limit := queryInt(r, "limit", 5)

	shootings, err := h.service.RecentShootings(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to retrieve user shootings")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, shootings)
}
