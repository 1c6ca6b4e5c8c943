package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/buildory/phodo-admin/internal/models"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

// ProfileContextKey is the key for storing the authenticated profile in
// context
const ProfileContextKey contextKey = "profile"

// ProfileLoader fetches the profile backing a session identity.
type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// Guard enforces admin-only access on protected routes. Role lookups
// are fail-closed: any error resolving the session or loading the
// profile denies the request.
type Guard struct {
	sessions SessionStore
	profiles ProfileLoader
	cookies  CookieConfig
	logger   *slog.Logger
}

func NewGuard(sessions SessionStore, profiles ProfileLoader, cookies CookieConfig, logger *slog.Logger) *Guard {
	return &Guard{
		sessions: sessions,
		profiles: profiles,
		cookies:  cookies,
		logger:   logger,
	}
}

// resolveProfile walks credential -> identity -> profile. A nil profile
// with a nil error means the identity exists but has no profile row;
// the caller treats that as a non-admin identity.
func (g *Guard) resolveProfile(r *http.Request, token string) (*models.Profile, error) {
	profileID, err := g.sessions.Resolve(r.Context(), token)
	if err != nil {
		return nil, err
	}

	profile, err := g.profiles.GetByID(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return profile, nil
}

// revokeAndClear terminates the session. A valid but non-admin session
// is never left live after a denied admin-route access attempt.
func (g *Guard) revokeAndClear(w http.ResponseWriter, r *http.Request, token string) {
	if err := g.sessions.Revoke(r.Context(), token); err != nil {
		g.logger.Error("failed to revoke session after denied access", slog.Any("error", err))
	}
	ClearSessionCookie(w, g.cookies)
}

// RequireAdmin guards admin-scoped API routes. No credential answers
// 401; an authenticated non-admin is signed out and answered 403.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionTokenFromRequest(r)
		if token == "" {
			pkghttp.WriteUnauthorized(w, "authentication required")
			return
		}

		profile, err := g.resolveProfile(r, token)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Unknown or expired token: nothing to sign out.
				pkghttp.WriteUnauthorized(w, "session expired")
				return
			}
			g.logger.Error("role lookup failed, denying", slog.Any("error", err))
			pkghttp.WriteForbidden(w, "access denied")
			return
		}

		if !profile.IsAdmin() {
			g.revokeAndClear(w, r, token)
			pkghttp.WriteForbidden(w, "admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdminPage guards admin-scoped page routes: every denial is a
// redirect to the login page instead of a JSON error.
func (g *Guard) RequireAdminPage(loginURL string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionTokenFromRequest(r)
			if token == "" {
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			profile, err := g.resolveProfile(r, token)
			if err != nil {
				if !errors.Is(err, models.ErrNotFound) {
					g.logger.Error("role lookup failed, denying", slog.Any("error", err))
				}
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			if !profile.IsAdmin() {
				g.revokeAndClear(w, r, token)
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectAuthorized short-circuits the login page for callers who
// already hold an authorized admin session.
func (g *Guard) RedirectAuthorized(adminURL string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionTokenFromRequest(r)
			if token != "" {
				profile, err := g.resolveProfile(r, token)
				if err == nil && profile.IsAdmin() {
					http.Redirect(w, r, adminURL, http.StatusFound)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetProfileFromContext extracts the authenticated profile from request
// context
func GetProfileFromContext(r *http.Request) *models.Profile {
	profile, ok := r.Context().Value(ProfileContextKey).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
