package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/models"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
)

// AuthService defines the interface for credential verification and
// session management
type AuthService interface {
	Login(ctx context.Context, email, password, clientIP string) (*models.Profile, string, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles login/logout HTTP requests
type AuthHandler struct {
	service    AuthService
	cookies    auth.CookieConfig
	sessionTTL int // seconds, for the cookie MaxAge
}

func NewAuthHandler(service AuthService, cookies auth.CookieConfig, sessionTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		service:    service,
		cookies:    cookies,
		sessionTTL: sessionTTLSeconds,
	}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed-in profile. The session token rides
// in the httpOnly cookie, not the body.
type LoginResponse struct {
	Profile *models.Profile `json:"profile"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	profile, token, err := h.service.Login(r.Context(), req.Email, req.Password, pkghttp.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "invalid email or password")
		case errors.Is(err, models.ErrAccountNotActive):
			pkghttp.WriteForbidden(w, "account is not active")
		default:
			pkghttp.WriteInternalError(w, "Login failed")
		}
		return
	}

	auth.SetSessionCookie(w, token, h.sessionTTL, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{Profile: profile})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.SessionTokenFromRequest(r)

	if err := h.service.Logout(r.Context(), token); err != nil {
		pkghttp.WriteInternalError(w, "Logout failed")
		return
	}

	auth.ClearSessionCookie(w, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// LoginPage handles GET /login. The guard redirects authorized admins
// away before this handler runs; everyone else gets the login shell.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>Phodo Admin | Sign in</title><h1>Sign in</h1>"))
}

// AdminHome handles GET /admin behind the page-mode guard.
func (h *AuthHandler) AdminHome(w http.ResponseWriter, r *http.Request) {
	nickname := ""
	if profile := auth.GetProfileFromContext(r); profile != nil {
		nickname = profile.Nickname
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>Phodo Admin</title><h1>Dashboard</h1><p>" + nickname + "</p>"))
}
