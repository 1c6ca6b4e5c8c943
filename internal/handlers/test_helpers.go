package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/internal/services"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAdminProfile attaches an admin profile to the request context,
// simulating a request that already passed the session guard.
func WithAdminProfile(req *http.Request, id, email string) *http.Request {
	profile := &models.Profile{
		ID:       id,
		Email:    email,
		Nickname: "operator",
		Role:     models.RoleAdmin,
		Status:   models.StatusActive,
	}
	ctx := context.WithValue(req.Context(), auth.ProfileContextKey, profile)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MockShootingService implements ShootingService for testing
type MockShootingService struct {
	ListFunc    func(ctx context.Context, params models.ShootingListParams) (*models.ListResult[*models.Shooting], error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Shooting, error)
}

func (m *MockShootingService) List(ctx context.Context, params models.ShootingListParams) (*models.ListResult[*models.Shooting], error) {
	if m.ListFunc == nil {
		result := models.NewListResult([]*models.Shooting{}, 0, models.DefaultPage, models.DefaultLimit)
		return &result, nil
	}
	return m.ListFunc(ctx, params)
}

func (m *MockShootingService) GetByID(ctx context.Context, id int64) (*models.Shooting, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	ListFunc            func(ctx context.Context, params models.UserListParams) (*models.ListResult[*models.Profile], error)
	GetByIDFunc         func(ctx context.Context, id string) (*models.Profile, error)
	StatsFunc           func(ctx context.Context, id string) (*models.UserShootingStats, error)
	RecentShootingsFunc func(ctx context.Context, id string, limit int) ([]*models.Shooting, error)
}

func (m *MockUserService) List(ctx context.Context, params models.UserListParams) (*models.ListResult[*models.Profile], error) {
	if m.ListFunc == nil {
		result := models.NewListResult([]*models.Profile{}, 0, models.DefaultPage, models.DefaultLimit)
		return &result, nil
	}
	return m.ListFunc(ctx, params)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserService) Stats(ctx context.Context, id string) (*models.UserShootingStats, error) {
	if m.StatsFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.StatsFunc(ctx, id)
}

func (m *MockUserService) RecentShootings(ctx context.Context, id string, limit int) ([]*models.Shooting, error) {
	if m.RecentShootingsFunc == nil {
		return []*models.Shooting{}, nil
	}
	return m.RecentShootingsFunc(ctx, id, limit)
}

// MockAppVersionService implements AppVersionService for testing
type MockAppVersionService struct {
	ListFunc    func(ctx context.Context, platform string) ([]*models.AppVersion, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.AppVersion, error)
	CreateFunc  func(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error)
	UpdateFunc  func(ctx context.Context, id string, params services.AppVersionUpdateParams) (*models.AppVersion, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockAppVersionService) List(ctx context.Context, platform string) ([]*models.AppVersion, error) {
	if m.ListFunc == nil {
		return []*models.AppVersion{}, nil
	}
	return m.ListFunc(ctx, platform)
}

func (m *MockAppVersionService) GetByID(ctx context.Context, id string) (*models.AppVersion, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAppVersionService) Create(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrConflict
	}
	return m.CreateFunc(ctx, version)
}

func (m *MockAppVersionService) Update(ctx context.Context, id string, params services.AppVersionUpdateParams) (*models.AppVersion, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, params)
}

func (m *MockAppVersionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteFunc(ctx, id)
}

// MockDashboardService implements DashboardService for testing
type MockDashboardService struct {
	GetStatsFunc func(ctx context.Context) (*services.DashboardStatsResponse, error)
}

func (m *MockDashboardService) GetStats(ctx context.Context) (*services.DashboardStatsResponse, error) {
	if m.GetStatsFunc == nil {
		return &services.DashboardStatsResponse{}, nil
	}
	return m.GetStatsFunc(ctx)
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	LoginFunc  func(ctx context.Context, email, password, clientIP string) (*models.Profile, string, error)
	LogoutFunc func(ctx context.Context, token string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password, clientIP string) (*models.Profile, string, error) {
	if m.LoginFunc == nil {
		return nil, "", models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password, clientIP)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, token)
}
