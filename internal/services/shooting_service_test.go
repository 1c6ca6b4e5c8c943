package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/buildory/phodo-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShootingService_List_EnvelopeMath(t *testing.T) {
	repo := &MockShootingRepository{
		ListFunc: func(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error) {
			// Page 3 of 23 rows at limit 10: the trailing 3 rows.
			return []*models.Shooting{{ID: 21}, {ID: 22}, {ID: 23}}, 23, nil
		},
	}
	svc := NewShootingService(repo, slog.Default())

	result, err := svc.List(context.Background(), models.ShootingListParams{Page: 3, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 23, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Items, 3)
	assert.LessOrEqual(t, len(result.Items), result.Limit)
}

func TestShootingService_List_NormalizesPagination(t *testing.T) {
	var captured models.ShootingListParams
	repo := &MockShootingRepository{
		ListFunc: func(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error) {
			captured = params
			return []*models.Shooting{}, 0, nil
		},
	}
	svc := NewShootingService(repo, slog.Default())

	_, err := svc.List(context.Background(), models.ShootingListParams{Page: 0, Limit: -1, State: "MATCHED"})

	require.NoError(t, err)
	assert.Equal(t, models.DefaultPage, captured.Page)
	assert.Equal(t, models.DefaultLimit, captured.Limit)
	assert.Equal(t, "MATCHED", captured.State)
}

func TestShootingService_List_PropagatesQueryError(t *testing.T) {
	repo := &MockShootingRepository{
		ListFunc: func(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error) {
			return nil, 0, &models.QueryError{Collection: "projects", Err: assert.AnError}
		},
	}
	svc := NewShootingService(repo, slog.Default())

	result, err := svc.List(context.Background(), models.ShootingListParams{})

	assert.ErrorIs(t, err, models.ErrQueryFailed)
	assert.Nil(t, result)
}

func TestShootingService_GetByID_EmbedsProfile(t *testing.T) {
	repo := &MockShootingRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Shooting, error) {
			return &models.Shooting{
				ID:      id,
				Title:   "Night market",
				Profile: NewTestProfile("u-1", "owner@example.com", "owner", models.RoleUser),
			}, nil
		},
	}
	svc := NewShootingService(repo, slog.Default())

	shooting, err := svc.GetByID(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, shooting.Profile)
	assert.Equal(t, "owner", shooting.Profile.Nickname)
}

func TestShootingService_GetByID_NotFound(t *testing.T) {
	svc := NewShootingService(&MockShootingRepository{}, slog.Default())

	shooting, err := svc.GetByID(context.Background(), 999)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, shooting)
}
