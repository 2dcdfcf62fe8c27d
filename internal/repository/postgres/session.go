package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/craftlink/auth-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	query := `INSERT INTO sessions (id, jti, account_id, token_hash, issued_at, expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		session.ID, session.JTI, session.AccountID, session.TokenHash,
		session.IssuedAt, session.ExpiresAt, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	query := `SELECT id, jti, account_id, token_hash, issued_at, expires_at, revoked_at, created_at, updated_at
			  FROM sessions WHERE jti = $1`

	var s model.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.JTI, &s.AccountID, &s.TokenHash,
		&s.IssuedAt, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by jti: %w", err)
	}

	return s, nil
}

func (r *SessionRepository) RevokeByJTI(ctx context.Context, jti string) error {
	query := `UPDATE sessions SET revoked_at = NOW(), updated_at = NOW()
			  WHERE jti = $1 AND revoked_at IS NULL`

	tag, err := r.db.Exec(ctx, query, jti)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
