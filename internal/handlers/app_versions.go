package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/internal/services"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
	pkglogger "github.com/buildory/phodo-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AppVersionService defines the interface for app-version CRUD logic
type AppVersionService interface {
	List(ctx context.Context, platform string) ([]*models.AppVersion, error)
	GetByID(ctx context.Context, id string) (*models.AppVersion, error)
	Create(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error)
	Update(ctx context.Context, id string, params services.AppVersionUpdateParams) (*models.AppVersion, error)
	Delete(ctx context.Context, id string) error
}

// AppVersionHandler handles app-version HTTP requests
type AppVersionHandler struct {
	service AppVersionService
	audit   *pkglogger.AuditLogger
}

func NewAppVersionHandler(service AppVersionService, audit *pkglogger.AuditLogger) *AppVersionHandler {
	return &AppVersionHandler{service: service, audit: audit}
}

// CreateAppVersionRequest represents the request body for creating a version row.
// The required-field set is re-checked by the service before any
// repository call.
type CreateAppVersionRequest struct {
	Platform            string  `json:"platform"`
	LatestVersion       string  `json:"latest_version"`
	MinSupportedVersion string  `json:"min_supported_version"`
	ForceUpdate         bool    `json:"force_update"`
	StoreURL            string  `json:"store_url"`
	Notes               *string `json:"notes"`
	MinNativeSupported  string  `json:"min_native_supported"`
}

// UpdateAppVersionRequest represents a partial update body.
type UpdateAppVersionRequest struct {
	Platform            *string `json:"platform"`
	LatestVersion       *string `json:"latest_version"`
	MinSupportedVersion *string `json:"min_supported_version"`
	ForceUpdate         *bool   `json:"force_update"`
	StoreURL            *string `json:"store_url"`
	Notes               *string `json:"notes"`
	MinNativeSupported  *string `json:"min_native_supported"`
}

// DeleteAppVersionResponse confirms a deletion.
type DeleteAppVersionResponse struct {
	Message string `json:"message"`
}

// ListAppVersions handles GET /api/app-versions
// Accepts an optional ?platform filter.
func (h *AppVersionHandler) ListAppVersions(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform != "" {
		if _, err := models.ParsePlatform(platform); err != nil {
			pkghttp.WriteBadRequest(w, "invalid platform filter")
			return
		}
	}

	versions, err := h.service.List(r.Context(), platform)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve app versions")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, versions)
}

// GetAppVersion handles GET /api/app-versions/{id}
func (h *AppVersionHandler) GetAppVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	version, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "App version not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to retrieve app version")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, version)
}

// CreateAppVersion handles POST /api/app-versions
func (h *AppVersionHandler) CreateAppVersion(w http.ResponseWriter, r *http.Request) {
	var req CreateAppVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	version := &models.AppVersion{
		Platform:            models.Platform(req.Platform),
		LatestVersion:       req.LatestVersion,
		MinSupportedVersion: req.MinSupportedVersion,
		ForceUpdate:         req.ForceUpdate,
		StoreURL:            req.StoreURL,
		Notes:               req.Notes,
		MinNativeSupported:  req.MinNativeSupported,
	}

	created, err := h.service.Create(r.Context(), version)
	if err != nil {
		var ve *models.ValidationError
		switch {
		case errors.As(err, &ve):
			pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "validation_failed", ve.Error(), ve.Field)
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "App version already exists")
		default:
			pkghttp.WriteInternalError(w, "Failed to create app version")
		}
		return
	}

	h.logAdminAction(r, "app_version_create", created.ID)
	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

// UpdateAppVersion handles PUT /api/app-versions/{id}
func (h *AppVersionHandler) UpdateAppVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateAppVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, services.AppVersionUpdateParams{
		Platform:            req.Platform,
		LatestVersion:       req.LatestVersion,
		MinSupportedVersion: req.MinSupportedVersion,
		ForceUpdate:         req.ForceUpdate,
		StoreURL:            req.StoreURL,
		Notes:               req.Notes,
		MinNativeSupported:  req.MinNativeSupported,
	})
	if err != nil {
		var ve *models.ValidationError
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "App version not found")
		case errors.As(err, &ve):
			pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "validation_failed", ve.Error(), ve.Field)
		default:
			pkghttp.WriteInternalError(w, "Failed to update app version")
		}
		return
	}

	h.logAdminAction(r, "app_version_update", id)
	pkghttp.WriteJSON(w, http.StatusOK, updated)
}

// DeleteAppVersion handles DELETE /api/app-versions/{id}
func (h *AppVersionHandler) DeleteAppVersion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "App version not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to delete app version")
		return
	}

	h.logAdminAction(r, "app_version_delete", id)
	pkghttp.WriteJSON(w, http.StatusOK, DeleteAppVersionResponse{Message: "App version deleted"})
}

func (h *AppVersionHandler) logAdminAction(r *http.Request, eventType, versionID string) {
	profileID := ""
	if profile := auth.GetProfileFromContext(r); profile != nil {
		profileID = profile.ID
	}
	h.audit.LogAdminAction(eventType, profileID, map[string]string{"version_id": versionID})
}
