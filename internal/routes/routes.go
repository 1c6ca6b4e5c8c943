package routes

import (
	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/handlers"
	"github.com/buildory/phodo-admin/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	guard *auth.Guard,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	shootingHandler *handlers.ShootingHandler,
	appVersionHandler *handlers.AppVersionHandler,
	dashboardHandler *handlers.DashboardHandler,
	loginRateLimit int,
) {
	// Public routes - credential submission is rate limited per IP
	router.With(middleware.LoginRateLimit(loginRateLimit)).Post("/auth/login", authHandler.Login)
	router.Post("/auth/logout", authHandler.Logout)

	// Login page; admins already holding a session skip straight to /admin
	router.With(guard.RedirectAuthorized("/admin")).Get("/login", authHandler.LoginPage)

	// Admin pages - denied access redirects to /login
	router.Group(func(r chi.Router) {
		r.Use(guard.RequireAdminPage("/login"))
		r.Get("/admin", authHandler.AdminHome)
	})

	// Admin API - denied access answers JSON 401/403
	router.Route("/api", func(r chi.Router) {
		r.Use(guard.RequireAdmin)

		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Get("/users/{id}/stats", userHandler.GetUserStats)
		r.Get("/users/{id}/shootings", userHandler.GetUserShootings)

		r.Get("/shootings", shootingHandler.ListShootings)
		r.Get("/shootings/{id}", shootingHandler.GetShooting)

		r.Get("/app-versions", appVersionHandler.ListAppVersions)
		r.Post("/app-versions", appVersionHandler.CreateAppVersion)
		r.Get("/app-versions/{id}", appVersionHandler.GetAppVersion)
		r.Put("/app-versions/{id}", appVersionHandler.UpdateAppVersion)
		r.Delete("/app-versions/{id}", appVersionHandler.DeleteAppVersion)

		r.Get("/dashboard/stats", dashboardHandler.GetStats)
	})
}
