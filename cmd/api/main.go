package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/config"
	"github.com/buildory/phodo-admin/internal/database"
	"github.com/buildory/phodo-admin/internal/handlers"
	middlewareCustom "github.com/buildory/phodo-admin/internal/middleware"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/internal/repositories"
	"github.com/buildory/phodo-admin/internal/routes"
	"github.com/buildory/phodo-admin/internal/services"
	pkgauth "github.com/buildory/phodo-admin/pkg/auth"
	pkglogger "github.com/buildory/phodo-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize session cache
	redisClient, err := initializeCache(cfg.Cache)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	shootingRepo := repositories.NewShootingRepository(db)
	appVersionRepo := repositories.NewAppVersionRepository(db)

	// Session store and cookie settings
	sessionStore := auth.NewRedisSessionStore(redisClient, cfg.Session.TTL)
	cookieConfig := auth.CookieConfig{
		Domain:   cfg.Session.CookieDomain,
		Secure:   cfg.Session.CookieSecure,
		SameSite: cfg.Session.CookieSameSite,
	}
	guard := auth.NewGuard(sessionStore, profileRepo, cookieConfig, logger)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Initialize services
	authService := services.NewAuthService(profileRepo, sessionStore, logger, auditLogger)
	userService := services.NewUserService(profileRepo, shootingRepo, logger)
	shootingService := services.NewShootingService(shootingRepo, logger)
	appVersionService := services.NewAppVersionService(appVersionRepo, logger)
	dashboardService := services.NewDashboardService(profileRepo, shootingRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cookieConfig, int(cfg.Session.TTL.Seconds()))
	userHandler := handlers.NewUserHandler(userService)
	shootingHandler := handlers.NewShootingHandler(shootingService)
	appVersionHandler := handlers.NewAppVersionHandler(appVersionService, auditLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Bootstrap first admin profile if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminProfile(ctx, profileRepo, logger); err != nil {
		logger.Error("failed to ensure admin profile", slog.Any("error", err))
	}
	cancel()

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, guard, authHandler, userHandler, shootingHandler, appVersionHandler, dashboardHandler, cfg.Session.LoginRateLimit)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		stats := db.Stats()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","database":"up","pool_total":%d,"pool_idle":%d}`,
			stats.TotalConns(), stats.IdleConns())
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// initializeCache connects the redis client backing session storage and
// verifies connectivity before the server starts accepting logins.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// ensureAdminProfile creates the first admin profile if ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminProfile(ctx context.Context, profileRepo *repositories.ProfileRepository, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin profile creation")
		return nil
	}

	// Check if admin already exists
	_, err := profileRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin profile already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	// Hash password
	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	// Create admin profile
	admin := &models.Profile{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Nickname:     "Admin",
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}

	if _, err := profileRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	logger.Info("admin profile created successfully")
	return nil
}
