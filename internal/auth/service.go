// Package auth implements administrator login, token verification and
// password changes on top of bcrypt and HS256 JWTs.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/garnizeh/sitecms/pkg/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation error")
)

type Service struct {
	users  repository.UserRepo
	tokens *TokenIssuer
}

func NewService(users repository.UserRepo, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login checks username/password against the stored bcrypt hash and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}

	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(u)
}

// VerifyToken validates a token presented on a protected request.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

// ChangePassword re-verifies current before storing a hash of next.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}

	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}

	if err := CheckPassword(u.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("store password: %w", err)
	}

	return nil
}
