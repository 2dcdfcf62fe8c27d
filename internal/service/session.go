package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// SessionService issues bearer tokens bound to a session row and
// validates presented tokens against it. Revoking the row invalidates
// the token even though its signature stays valid.
type SessionService struct {
	tokenManager model.TokenManager
	sessionStore model.SessionStore
	sessionTTL   time.Duration
	logger       *logger.Logger
}

func NewSessionService(
	tokenManager model.TokenManager,
	sessionStore model.SessionStore,
	sessionTTL time.Duration,
	logger *logger.Logger,
) *SessionService {
	return &SessionService{
		tokenManager: tokenManager,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// Issue creates a fresh session for the account and returns its bearer
// token. Existing sessions are untouched.
func (s *SessionService) Issue(ctx context.Context, accountID uuid.UUID) (string, error) {
	jti := uuid.NewString()

	token, err := s.tokenManager.GenerateAccessToken(accountID, jti, s.sessionTTL)
	if err != nil {
		s.logger.Error("Session service: failed to generate access token",
			"account_id", accountID,
			"error", err.Error())
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	digest := sha256.Sum256([]byte(token))
	now := time.Now()
	session := model.Session{
		ID:        uuid.New(),
		JTI:       jti,
		AccountID: accountID,
		TokenHash: digest[:],
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		s.logger.Error("Session service: failed to create session",
			"account_id", accountID,
			"jti", jti,
			"error", err.Error())
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session service: session issued",
		"account_id", accountID,
		"jti", jti)

	return token, nil
}

// Authenticate validates a presented bearer token and returns the
// account it belongs to along with the session jti.
func (s *SessionService) Authenticate(ctx context.Context, token string) (uuid.UUID, string, error) {
	accountID, jti, err := s.tokenManager.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}

	session, err := s.sessionStore.GetByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, "", model.ErrUnauthenticated
		}
		return uuid.Nil, "", fmt.Errorf("failed to get session: %w", err)
	}

	if session.RevokedAt != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %v", model.ErrUnauthenticated, model.ErrSessionRevoked)
	}
	if time.Now().After(session.ExpiresAt) {
		return uuid.Nil, "", fmt.Errorf("%w: %v", model.ErrUnauthenticated, model.ErrSessionExpired)
	}

	digest := sha256.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(digest[:], session.TokenHash) != 1 {
		return uuid.Nil, "", model.ErrUnauthenticated
	}
	if session.AccountID != accountID {
		return uuid.Nil, "", model.ErrUnauthenticated
	}

	return accountID, jti, nil
}

// Revoke invalidates the session behind the jti. Other sessions of the
// same account stay valid.
func (s *SessionService) Revoke(ctx context.Context, jti string) error {
	if err := s.sessionStore.RevokeByJTI(ctx, jti); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrUnauthenticated
		}
		s.logger.Error("Session service: failed to revoke session",
			"jti", jti,
			"error", err.Error())
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("Session service: session revoked", "jti", jti)

	return nil
}
