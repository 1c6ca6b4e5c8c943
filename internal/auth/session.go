package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/buildory/phodo-admin/internal/models"
	"github.com/redis/go-redis/v9"
)

// SessionStore resolves opaque session tokens to profile ids. The token
// is the only credential a browser holds; revoking it is a full
// sign-out.
type SessionStore interface {
	Create(ctx context.Context, profileID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps session tokens in redis with a TTL, so idle
// sessions expire without a cleanup job.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Create mints a random opaque token bound to the profile id.
func (s *RedisSessionStore) Create(ctx context.Context, profileID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, profileID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Resolve returns the profile id the token belongs to, or
// models.ErrNotFound for unknown or expired tokens.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	profileID, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	return profileID, nil
}

// Revoke invalidates the token. Revoking an already-expired token is
// not an error.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// generateToken returns 32 random bytes hex-encoded.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
