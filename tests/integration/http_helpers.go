package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/config"
	"github.com/buildory/phodo-admin/internal/database"
	"github.com/buildory/phodo-admin/internal/handlers"
	middlewareCustom "github.com/buildory/phodo-admin/internal/middleware"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/internal/repositories"
	"github.com/buildory/phodo-admin/internal/routes"
	"github.com/buildory/phodo-admin/internal/services"
	pkglogger "github.com/buildory/phodo-admin/pkg/logger"
)

// InMemorySessionStore swaps redis out of the session path so HTTP
// tests need only the database container. It also lets tests inspect
// which tokens are still live after a denied access attempt.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
	counter  int
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: map[string]string{}}
}

func (s *InMemorySessionStore) Create(ctx context.Context, profileID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	token := fmt.Sprintf("test-session-%d-%s", s.counter, profileID)
	s.sessions[token] = profileID
	return token, nil
}

func (s *InMemorySessionStore) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profileID, ok := s.sessions[token]
	if !ok {
		return "", models.ErrNotFound
	}
	return profileID, nil
}

func (s *InMemorySessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Live reports whether a token still resolves.
func (s *InMemorySessionStore) Live(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	return ok
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server   *httptest.Server
	DB       *database.DB
	Sessions *InMemorySessionStore
	Config   *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with a real
// database and an in-memory session store.
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
		Session: config.SessionConfig{
			TTL:            time.Hour,
			CookieSameSite: "lax",
			LoginRateLimit: 100,
		},
	}

	profileRepo := repositories.NewProfileRepository(db)
	shootingRepo := repositories.NewShootingRepository(db)
	appVersionRepo := repositories.NewAppVersionRepository(db)

	sessionStore := NewInMemorySessionStore()
	cookieConfig := auth.CookieConfig{SameSite: cfg.Session.CookieSameSite}
	guard := auth.NewGuard(sessionStore, profileRepo, cookieConfig, logger)

	auditLogger := pkglogger.NewAuditLogger(logger)

	authService := services.NewAuthService(profileRepo, sessionStore, logger, auditLogger)
	userService := services.NewUserService(profileRepo, shootingRepo, logger)
	shootingService := services.NewShootingService(shootingRepo, logger)
	appVersionService := services.NewAppVersionService(appVersionRepo, logger)
	dashboardService := services.NewDashboardService(profileRepo, shootingRepo, logger)

	authHandler := handlers.NewAuthHandler(authService, cookieConfig, int(cfg.Session.TTL.Seconds()))
	userHandler := handlers.NewUserHandler(userService)
	shootingHandler := handlers.NewShootingHandler(shootingService)
	appVersionHandler := handlers.NewAppVersionHandler(appVersionService, auditLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, guard, authHandler, userHandler, shootingHandler, appVersionHandler, dashboardHandler, cfg.Session.LoginRateLimit)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:   server,
		DB:       db,
		Sessions: sessionStore,
		Config:   cfg,
		logger:   logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{
		// Redirects are assertions in these tests, never followed.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return client.Do(req)
}

// RequestWithSession makes an HTTP request carrying a session token
func (ts *TestServer) RequestWithSession(method, path, token string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	return ts.Request(method, path, body, headers)
}

// Login signs a seeded profile in and returns the session token from
// the response cookie.
func (ts *TestServer) Login(email, password string) (string, *http.Response, error) {
	resp, err := ts.Request("POST", "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return "", nil, err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName && cookie.Value != "" {
			return cookie.Value, resp, nil
		}
	}
	return "", resp, nil
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}
