package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/domain"
	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
	"github.com/openmusicapp/openmusic-server/internal/id"
	"github.com/openmusicapp/openmusic-server/internal/ratelimit"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionService handles login, token refresh, and logout. Refresh
// tokens are stored hashed and rotated on every refresh.
type SessionService struct {
	store      store.Store
	tokens     *auth.TokenService
	loginLimit *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
}

// NewSessionService creates a new session service. loginLimit is
// keyed by username to slow down credential guessing.
func NewSessionService(store store.Store, tokens *auth.TokenService, loginLimit *ratelimit.KeyedRateLimiter, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:      store,
		tokens:     tokens,
		loginLimit: loginLimit,
		logger:     logger,
	}
}

// Login verifies credentials and opens a session. The returned pair
// carries a short-lived access token and a rotating refresh token.
func (s *SessionService) Login(ctx context.Context, input LoginInput, ipAddress, userAgent string) (*TokenPair, error) {
	if !s.loginLimit.Allow(input.Username) {
		return nil, domainerrors.Validation("too many login attempts, slow down")
	}

	user, err := s.store.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Warn("failed login attempt", "username", input.Username, "ip", ipAddress)
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "session_id", sessionID)
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// old refresh token is invalidated in the same step.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.TokenExpired("refresh token is invalid")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired() {
		if err := s.store.DeleteSessionByTokenHash(ctx, session.RefreshTokenHash); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, domainerrors.TokenExpired("refresh token has expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.TokenExpired("refresh token is invalid")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	newRefreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.Touch()
	session.ExpiresAt = time.Now().Add(s.tokens.RefreshTokenDuration())
	if err := s.store.UpdateSessionToken(ctx, session.ID, auth.HashRefreshToken(newRefreshToken), session); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.TokenExpired("refresh token is invalid")
		}
		return nil, fmt.Errorf("rotate session token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout closes the session identified by the refresh token.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.store.DeleteSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("session not found")
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PruneExpiredSessions deletes sessions past their expiry. Meant to
// run periodically in the background.
func (s *SessionService) PruneExpiredSessions(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned expired sessions", "count", n)
	}
	return nil
}
