package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/buildory/phodo-admin/internal/auth"
	"github.com/buildory/phodo-admin/internal/models"
	pkgauth "github.com/buildory/phodo-admin/pkg/auth"
	pkglogger "github.com/buildory/phodo-admin/pkg/logger"
)

// AuthService verifies operator credentials and manages sessions.
type AuthService struct {
	profiles ProfileRepository
	sessions auth.SessionStore
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

func NewAuthService(profiles ProfileRepository, sessions auth.SessionStore, logger *slog.Logger, audit *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
		audit:    audit,
	}
}

// Login verifies email/password and mints a session token. Unknown
// emails and wrong passwords collapse into one credential error so the
// endpoint does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*models.Profile, string, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login",
				IPAddress:     clientIP,
				Success:       false,
				FailureReason: "unknown email",
			})
			return nil, "", models.ErrInvalidCredentials
		}
		s.logger.Error("failed to load profile for login",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return nil, "", err
	}

	if !pkgauth.VerifyPassword(profile.PasswordHash, password) {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			ProfileID:     profile.ID,
			IPAddress:     clientIP,
			Success:       false,
			FailureReason: "wrong password",
		})
		return nil, "", models.ErrInvalidCredentials
	}

	if !profile.CanSignIn() {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			ProfileID:     profile.ID,
			IPAddress:     clientIP,
			Success:       false,
			FailureReason: "account " + string(profile.Status),
		})
		return nil, "", models.ErrAccountNotActive
	}

	token, err := s.sessions.Create(ctx, profile.ID)
	if err != nil {
		s.logger.Error("failed to create session", slog.String("profile_id", profile.ID), slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login",
		ProfileID: profile.ID,
		IPAddress: clientIP,
		Success:   true,
	})

	return profile, token, nil
}

// Logout revokes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.logger.Error("failed to revoke session on logout", slog.Any("error", err))
		return models.ErrInternalServer
	}

	return nil
}
