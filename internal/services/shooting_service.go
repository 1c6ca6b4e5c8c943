package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/buildory/phodo-admin/internal/models"
)

// ShootingRepository defines the interface for shooting data access
type ShootingRepository interface {
	List(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error)
	GetByID(ctx context.Context, id int64) (*models.Shooting, error)
}

// ShootingService handles shooting listing for the dashboard. Rows are
// read-only here; mutation happens in the consumer app.
type ShootingService struct {
	repo   ShootingRepository
	logger *slog.Logger
}

func NewShootingService(repo ShootingRepository, logger *slog.Logger) *ShootingService {
	return &ShootingService{
		repo:   repo,
		logger: logger,
	}
}

// List returns one page of shootings with their owning profile
// embedded where one exists.
func (s *ShootingService) List(ctx context.Context, params models.ShootingListParams) (*models.ListResult[*models.Shooting], error) {
	params.Page = models.NormalizePage(params.Page)
	params.Limit = models.NormalizeLimit(params.Limit)

	shootings, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list shootings",
			slog.String("search", params.Search),
			slog.String("state", params.State),
			slog.String("recruit_type", params.RecruitType),
			slog.Any("error", err))
		return nil, err
	}

	result := models.NewListResult(shootings, total, params.Page, params.Limit)
	return &result, nil
}

// GetByID retrieves a shooting with its embedded profile.
func (s *ShootingService) GetByID(ctx context.Context, id int64) (*models.Shooting, error) {
	shooting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("shooting not found", slog.Int64("shooting_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get shooting", slog.Int64("shooting_id", id), slog.Any("error", err))
		return nil, err
	}

	return shooting, nil
}
