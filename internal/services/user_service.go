package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/buildory/phodo-admin/internal/models"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	List(ctx context.Context, params models.UserListParams) ([]*models.Profile, int, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// UserShootingRepository is the subset of ShootingRepository methods
// needed for per-user stats.
type UserShootingRepository interface {
	StatsByUser(ctx context.Context, userID string) (*models.UserShootingStats, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]*models.Shooting, error)
}

// UserService handles profile listing and per-user aggregates.
type UserService struct {
	profiles  ProfileRepository
	shootings UserShootingRepository
	logger    *slog.Logger
}

func NewUserService(profiles ProfileRepository, shootings UserShootingRepository, logger *slog.Logger) *UserService {
	return &UserService{
		profiles:  profiles,
		shootings: shootings,
		logger:    logger,
	}
}

// List returns one page of profiles. A backend failure propagates as a
// typed error, never as an empty result.
func (s *UserService) List(ctx context.Context, params models.UserListParams) (*models.ListResult[*models.Profile], error) {
	params.Page = models.NormalizePage(params.Page)
	params.Limit = models.NormalizeLimit(params.Limit)

	profiles, total, err := s.profiles.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list profiles",
			slog.String("search", params.Search),
			slog.String("role", params.Role),
			slog.String("status", params.Status),
			slog.Any("error", err))
		return nil, err
	}

	result := models.NewListResult(profiles, total, params.Page, params.Limit)
	return &result, nil
}

// GetByID retrieves a profile. Not-found is a recoverable outcome for
// the caller to translate, not an error-level event.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("profile not found", slog.String("profile_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get profile", slog.String("profile_id", id), slog.Any("error", err))
		return nil, err
	}

	return profile, nil
}

// Stats aggregates the user's shootings by state.
func (s *UserService) Stats(ctx context.Context, id string) (*models.UserShootingStats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	stats, err := s.shootings.StatsByUser(ctx, id)
	if err != nil {
		s.logger.Error("failed to load user stats", slog.String("profile_id", id), slog.Any("error", err))
		return nil, err
	}

	return stats, nil
}

// RecentShootings returns the user's newest shootings.
func (s *UserService) RecentShootings(ctx context.Context, id string, limit int) ([]*models.Shooting, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	shootings, err := s.shootings.RecentByUser(ctx, id, limit)
	if err != nil {
		s.logger.Error("failed to load recent shootings", slog.String("profile_id", id), slog.Any("error", err))
		return nil, err
	}

	return shootings, nil
}
