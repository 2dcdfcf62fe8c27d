package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists bearer sessions. Multiple sessions may coexist
// per account; revocation targets exactly one session.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByJTI(ctx context.Context, jti string) (Session, error)
	RevokeByJTI(ctx context.Context, jti string) error
}

// Session is one bearer credential bound to an account. The JTI links
// the signed token to this row; a revoked or expired row invalidates
// the token regardless of its signature.
type Session struct {
	ID        uuid.UUID
	JTI       string
	AccountID uuid.UUID
	TokenHash []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session validation errors.
var (
	ErrSessionRevoked = errors.New("session revoked")
	ErrSessionExpired = errors.New("session expired")
)

// TokenManager signs and validates access tokens bound to sessions.
type TokenManager interface {
	GenerateAccessToken(accountID uuid.UUID, jti string, ttl time.Duration) (string, error)
	ParseAccessToken(token string) (accountID uuid.UUID, jti string, err error)
}
