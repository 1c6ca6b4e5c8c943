package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/buildory/phodo-admin/internal/models"
)

// AppVersionRepository defines the interface for app version data access
type AppVersionRepository interface {
	List(ctx context.Context, platform string) ([]*models.AppVersion, error)
	GetByID(ctx context.Context, id string) (*models.AppVersion, error)
	Create(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error)
	Update(ctx context.Context, id string, version *models.AppVersion) (*models.AppVersion, error)
	Delete(ctx context.Context, id string) error
}

// AppVersionService handles app-version CRUD for the admin panel.
type AppVersionService struct {
	repo   AppVersionRepository
	logger *slog.Logger
}

func NewAppVersionService(repo AppVersionRepository, logger *slog.Logger) *AppVersionService {
	return &AppVersionService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all version rows, optionally restricted to one platform.
func (s *AppVersionService) List(ctx context.Context, platform string) ([]*models.AppVersion, error) {
	versions, err := s.repo.List(ctx, platform)
	if err != nil {
		s.logger.Error("failed to list app versions", slog.String("platform", platform), slog.Any("error", err))
		return nil, err
	}

	return versions, nil
}

func (s *AppVersionService) GetByID(ctx context.Context, id string) (*models.AppVersion, error) {
	version, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("app version not found", slog.String("version_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get app version", slog.String("version_id", id), slog.Any("error", err))
		return nil, err
	}

	return version, nil
}

// validateCreate checks the required-field set. It runs before any
// repository call, so a validation failure never costs a round trip.
func validateCreate(version *models.AppVersion) error {
	if version.Platform == "" {
		return &models.ValidationError{Field: "platform"}
	}
	if _, err := models.ParsePlatform(string(version.Platform)); err != nil {
		return &models.ValidationError{Field: "platform"}
	}
	if version.LatestVersion == "" {
		return &models.ValidationError{Field: "latest_version"}
	}
	if version.MinSupportedVersion == "" {
		return &models.ValidationError{Field: "min_supported_version"}
	}
	if version.StoreURL == "" {
		return &models.ValidationError{Field: "store_url"}
	}
	if version.MinNativeSupported == "" {
		return &models.ValidationError{Field: "min_native_supported"}
	}
	return nil
}

func (s *AppVersionService) Create(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error) {
	if err := validateCreate(version); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, version)
	if err != nil {
		s.logger.Error("failed to create app version", slog.String("platform", string(version.Platform)), slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("app version created",
		slog.String("version_id", created.ID),
		slog.String("platform", string(created.Platform)),
		slog.String("latest_version", created.LatestVersion))
	return created, nil
}

// AppVersionUpdateParams carries a partial update; nil fields keep
// their stored values.
type AppVersionUpdateParams struct {
	Platform            *string
	LatestVersion       *string
	MinSupportedVersion *string
	ForceUpdate         *bool
	StoreURL            *string
	Notes               *string
	MinNativeSupported  *string
}

// Update applies a partial update on top of the stored row.
func (s *AppVersionService) Update(ctx context.Context, id string, params AppVersionUpdateParams) (*models.AppVersion, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Platform != nil {
		platform, err := models.ParsePlatform(*params.Platform)
		if err != nil {
			return nil, &models.ValidationError{Field: "platform"}
		}
		existing.Platform = platform
	}
	if params.LatestVersion != nil {
		existing.LatestVersion = *params.LatestVersion
	}
	if params.MinSupportedVersion != nil {
		existing.MinSupportedVersion = *params.MinSupportedVersion
	}
	if params.ForceUpdate != nil {
		existing.ForceUpdate = *params.ForceUpdate
	}
	if params.StoreURL != nil {
		existing.StoreURL = *params.StoreURL
	}
	if params.Notes != nil {
		existing.Notes = params.Notes
	}
	if params.MinNativeSupported != nil {
		existing.MinNativeSupported = *params.MinNativeSupported
	}

	updated, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		s.logger.Error("failed to update app version", slog.String("version_id", id), slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("app version updated", slog.String("version_id", id))
	return updated, nil
}

// Delete removes a version row. Not-found surfaces as ErrNotFound so
// the handler can answer 404; it is never conflated with a backend
// failure in logs.
func (s *AppVersionService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("app version not found for delete", slog.String("version_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete app version", slog.String("version_id", id), slog.Any("error", err))
		return err
	}

	s.logger.Info("app version deleted", slog.String("version_id", id))
	return nil
}
