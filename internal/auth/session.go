package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/cliptube/backend/internal/apperr"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// UserStore captures the persistence operations the session lifecycle needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	ClearRefreshToken(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Session orchestrates login, refresh, logout, and password changes. The
// account holds a single active refresh token: issuing a new one invalidates
// every previously issued refresh token at once.
type Session struct {
	tokens *TokenService
	users  UserStore
}

// NewSession constructs the session controller.
func NewSession(tokens *TokenService, users UserStore) *Session {
	if tokens == nil || users == nil {
		panic("auth: session requires a token service and user store")
	}
	return &Session{tokens: tokens, users: users}
}

// Login authenticates by username or email plus password. On success the new
// refresh token is persisted and both tokens are returned with the sanitized
// user record.
func (s *Session) Login(ctx context.Context, identifier, password string) (models.User, models.SessionTokens, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, models.SessionTokens{}, apperr.New(apperr.NotFound, "user not found")
		}
		return models.User{}, models.SessionTokens{}, fmt.Errorf("look up user: %w", err)
	}

	if !s.tokens.VerifyPassword(password, user.Password) {
		return models.User{}, models.SessionTokens{}, apperr.New(apperr.Unauthorized, "password is incorrect")
	}

	tokens, err := s.issue(ctx, user.ID)
	if err != nil {
		return models.User{}, models.SessionTokens{}, err
	}

	return user.Sanitized(), tokens, nil
}

// Refresh exchanges a refresh token for a freshly rotated pair. The incoming
// token must verify and byte-equal the value stored for the user, which
// rejects reuse of superseded tokens.
func (s *Session) Refresh(ctx context.Context, incoming string) (models.SessionTokens, error) {
	if incoming == "" {
		return models.SessionTokens{}, apperr.New(apperr.Unauthorized, "refresh token is required")
	}

	userID, err := s.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		return models.SessionTokens{}, apperr.New(apperr.Unauthorized, "invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.SessionTokens{}, apperr.New(apperr.Unauthorized, "invalid refresh token")
		}
		return models.SessionTokens{}, fmt.Errorf("look up user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(incoming)) != 1 {
		return models.SessionTokens{}, apperr.New(apperr.Unauthorized, "refresh token has been superseded")
	}

	return s.issue(ctx, user.ID)
}

// Logout clears the stored refresh token unconditionally. Idempotent.
func (s *Session) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// ChangePassword verifies the old password, then rehashes and persists only
// the password column.
func (s *Session) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user not found")
		}
		return fmt.Errorf("look up user: %w", err)
	}

	if !s.tokens.VerifyPassword(oldPassword, user.Password) {
		return apperr.New(apperr.Unauthorized, "invalid password")
	}

	hashed, err := s.tokens.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *Session) issue(ctx context.Context, userID string) (models.SessionTokens, error) {
	accessToken, accessExpiry, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return models.SessionTokens{}, err
	}

	refreshToken, refreshExpiry, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return models.SessionTokens{}, err
	}

	if err := s.users.SetRefreshToken(ctx, userID, refreshToken); err != nil {
		return models.SessionTokens{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return models.SessionTokens{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}
