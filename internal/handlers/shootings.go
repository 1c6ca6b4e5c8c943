package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/buildory/phodo-admin/internal/models"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ShootingService defines the interface for shooting listing logic
type ShootingService interface {
	List(ctx context.Context, params models.ShootingListParams) (*models.ListResult[*models.Shooting], error)
	GetByID(ctx context.Context, id int64) (*models.Shooting, error)
}

// ShootingHandler handles shooting-related HTTP requests
type ShootingHandler struct {
	service ShootingService
}

func NewShootingHandler(service ShootingService) *ShootingHandler {
	return &ShootingHandler{service: service}
}

// ListShootings handles GET /api/shootings
// Accepts page, limit, search, title, state and recruit_type query
// params; absent or malformed page/limit fall back to defaults.
func (h *ShootingHandler) ListShootings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if state := q.Get("state"); state != "" {
		if _, err := models.ParseShootingState(state); err != nil {
			pkghttp.WriteBadRequest(w, "invalid state filter")
			return
		}
	}
	if recruitType := q.Get("recruit_type"); recruitType != "" {
		if _, err := models.ParseRecruitType(recruitType); err != nil {
			pkghttp.WriteBadRequest(w, "invalid recruit_type filter")
			return
		}
	}

	params := models.ShootingListParams{
		Page:        queryInt(r, "page", models.DefaultPage),
		Limit:       queryInt(r, "limit", models.DefaultLimit),
		Search:      q.Get("search"),
		Title:       q.Get("title"),
		State:       q.Get("state"),
		RecruitType: q.Get("recruit_type"),
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve shootings")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// GetShooting handles GET /api/shootings/{id}
func (h *ShootingHandler) GetShooting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "shooting id must be an integer")
		return
	}

	shooting, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Shooting not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to retrieve shooting")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, shooting)
}
