package http

import (
	"context"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/model"
)

type contextKey int

const (
	accountIDKey contextKey = iota
	sessionJTIKey
)

var _ model.ContextManager = (*ContextManager)(nil)

// ContextManager carries the authenticated account id and session jti
// through request context.
type ContextManager struct{}

func NewContextManager() *ContextManager {
	return &ContextManager{}
}

func (m *ContextManager) SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

func (m *ContextManager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey).(uuid.UUID)
	return id, ok
}

func (m *ContextManager) SetSessionJTIToContext(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, sessionJTIKey, jti)
}

func (m *ContextManager) GetSessionJTIFromContext(ctx context.Context) (string, bool) {
	jti, ok := ctx.Value(sessionJTIKey).(string)
	return jti, ok
}
