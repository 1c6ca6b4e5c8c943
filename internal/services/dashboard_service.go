package services

import (
	"context"
	"log/slog"

	"github.com/buildory/phodo-admin/internal/models"
)

// DashboardProfileRepository is the subset of ProfileRepository methods
// needed for dashboard counters.
type DashboardProfileRepository interface {
	Count(ctx context.Context) (int, error)
}

// DashboardShootingRepository is the subset of ShootingRepository
// methods needed for dashboard counters.
type DashboardShootingRepository interface {
	CountByState(ctx context.Context) (int, map[models.ShootingState]int, error)
}

// DashboardStatsResponse contains aggregate admin metrics.
type DashboardStatsResponse struct {
	TotalUsers         int `json:"total_users"`
	TotalShootings     int `json:"total_shootings"`
	WaitingShootings   int `json:"waiting_shootings"`
	MatchedShootings   int `json:"matched_shootings"`
	CompletedShootings int `json:"completed_shootings"`
	CancelledShootings int `json:"cancelled_shootings"`
}

// DashboardService aggregates counts for the admin landing page.
type DashboardService struct {
	profiles  DashboardProfileRepository
	shootings DashboardShootingRepository
	logger    *slog.Logger
}

func NewDashboardService(profiles DashboardProfileRepository, shootings DashboardShootingRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		profiles:  profiles,
		shootings: shootings,
		logger:    logger,
	}
}

// GetStats returns user and shooting counters.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStatsResponse, error) {
	users, err := s.profiles.Count(ctx)
	if err != nil {
		s.logger.Error("dashboard: failed to count users", slog.Any("error", err))
		return nil, err
	}

	total, byState, err := s.shootings.CountByState(ctx)
	if err != nil {
		s.logger.Error("dashboard: failed to count shootings", slog.Any("error", err))
		return nil, err
	}

	return &DashboardStatsResponse{
		TotalUsers:         users,
		TotalShootings:     total,
		WaitingShootings:   byState[models.ShootingWaitingMatch],
		MatchedShootings:   byState[models.ShootingMatched],
		CompletedShootings: byState[models.ShootingCompleted],
		CancelledShootings: byState[models.ShootingCancelled],
	}, nil
}
