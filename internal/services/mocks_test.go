package services

import (
	"context"
	"time"

	"github.com/buildory/phodo-admin/internal/models"
)

// NewTestProfile builds a profile with sensible defaults for service tests
func NewTestProfile(id, email, nickname string, role models.Role) *models.Profile {
	now := time.Now()
	return &models.Profile{
		ID:        id,
		Email:     email,
		Nickname:  nickname,
		Gender:    models.GenderPreferNotToSay,
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MockProfileRepository implements ProfileRepository for testing
type MockProfileRepository struct {
	ListFunc       func(ctx context.Context, params models.UserListParams) ([]*models.Profile, int, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.Profile, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.Profile, error)
	CountFunc      func(ctx context.Context) (int, error)
}

func (m *MockProfileRepository) List(ctx context.Context, params models.UserListParams) ([]*models.Profile, int, error) {
	if m.ListFunc == nil {
		return []*models.Profile{}, 0, nil
	}
	return m.ListFunc(ctx, params)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if m.GetByEmailFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockProfileRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc == nil {
		return 0, nil
	}
	return m.CountFunc(ctx)
}

// MockShootingRepository implements ShootingRepository and
// UserShootingRepository for testing
type MockShootingRepository struct {
	ListFunc         func(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*models.Shooting, error)
	StatsByUserFunc  func(ctx context.Context, userID string) (*models.UserShootingStats, error)
	RecentByUserFunc func(ctx context.Context, userID string, limit int) ([]*models.Shooting, error)
	CountByStateFunc func(ctx context.Context) (int, map[models.ShootingState]int, error)
}

func (m *MockShootingRepository) List(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error) {
	if m.ListFunc == nil {
		return []*models.Shooting{}, 0, nil
	}
	return m.ListFunc(ctx, params)
}

func (m *MockShootingRepository) GetByID(ctx context.Context, id int64) (*models.Shooting, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockShootingRepository) StatsByUser(ctx context.Context, userID string) (*models.UserShootingStats, error) {
	if m.StatsByUserFunc == nil {
		return &models.UserShootingStats{}, nil
	}
	return m.StatsByUserFunc(ctx, userID)
}

func (m *MockShootingRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*models.Shooting, error) {
	if m.RecentByUserFunc == nil {
		return []*models.Shooting{}, nil
	}
	return m.RecentByUserFunc(ctx, userID, limit)
}

func (m *MockShootingRepository) CountByState(ctx context.Context) (int, map[models.ShootingState]int, error) {
	if m.CountByStateFunc == nil {
		return 0, map[models.ShootingState]int{}, nil
	}
	return m.CountByStateFunc(ctx)
}

// MockAppVersionRepository implements AppVersionRepository for testing.
// Calls counts every repository round trip so tests can assert that
// validation failures never reach the backend.
type MockAppVersionRepository struct {
	Calls int

	ListFunc    func(ctx context.Context, platform string) ([]*models.AppVersion, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.AppVersion, error)
	CreateFunc  func(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error)
	UpdateFunc  func(ctx context.Context, id string, version *models.AppVersion) (*models.AppVersion, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockAppVersionRepository) List(ctx context.Context, platform string) ([]*models.AppVersion, error) {
	m.Calls++
	if m.ListFunc == nil {
		return []*models.AppVersion{}, nil
	}
	return m.ListFunc(ctx, platform)
}

func (m *MockAppVersionRepository) GetByID(ctx context.Context, id string) (*models.AppVersion, error) {
	m.Calls++
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAppVersionRepository) Create(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error) {
	m.Calls++
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, version)
}

func (m *MockAppVersionRepository) Update(ctx context.Context, id string, version *models.AppVersion) (*models.AppVersion, error) {
	m.Calls++
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, version)
}

func (m *MockAppVersionRepository) Delete(ctx context.Context, id string) error {
	m.Calls++
	if m.DeleteFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteFunc(ctx, id)
}

// MockSessionStore implements auth.SessionStore for testing
type MockSessionStore struct {
	CreateFunc  func(ctx context.Context, profileID string) (string, error)
	ResolveFunc func(ctx context.Context, token string) (string, error)
	RevokeFunc  func(ctx context.Context, token string) error
}

func (m *MockSessionStore) Create(ctx context.Context, profileID string) (string, error) {
	if m.CreateFunc == nil {
		return "mock-token", nil
	}
	return m.CreateFunc(ctx, profileID)
}

func (m *MockSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if m.ResolveFunc == nil {
		return "", models.ErrNotFound
	}
	return m.ResolveFunc(ctx, token)
}

func (m *MockSessionStore) Revoke(ctx context.Context, token string) error {
	if m.RevokeFunc == nil {
		return nil
	}
	return m.RevokeFunc(ctx, token)
}
