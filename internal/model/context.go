package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager passes the authenticated account through request
// context. There is no ambient current-user state; every operation
// receives the account id explicitly.
type ContextManager interface {
	SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context
	GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool)
	SetSessionJTIToContext(ctx context.Context, jti string) context.Context
	GetSessionJTIFromContext(ctx context.Context) (string, bool)
}
