package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/billfold/billfold/internal/httpx"
)

// Service implements registration, login, and identity lookup.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService builds Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a user account and issues a token for it.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (User, string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = RoleStaff
	}
	if !ValidRole(role) {
		return User{}, "", fmt.Errorf("invalid role %q: %w", role, httpx.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Role:         role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.Issue(ctx, Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, "", fmt.Errorf("invalid email or password: %w", httpx.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, "", fmt.Errorf("invalid email or password: %w", httpx.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(ctx, Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Me returns the account behind an authenticated identity.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}
