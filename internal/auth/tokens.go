package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/billfold/billfold/internal/httpx"
)

// TokenStore issues and verifies opaque bearer tokens backed by Redis.
// The token value carries no claims; everything lives server-side so a
// revoked token dies immediately.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue stores the identity under a fresh random token.
func (s *TokenStore) Issue(ctx context.Context, id Identity) (string, error) {
	token := generateToken()
	payload, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("auth: marshal identity: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Verify resolves a bearer token to its identity.
func (s *TokenStore) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("missing token: %w", httpx.ErrUnauthorized)
	}
	payload, err := s.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, fmt.Errorf("token invalid or expired: %w", httpx.ErrUnauthorized)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("auth: load token: %w", err)
	}
	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return Identity{}, fmt.Errorf("auth: decode identity: %w", err)
	}
	return id, nil
}

// Revoke deletes a token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

func tokenKey(token string) string {
	return "token:" + token
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
