package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/craftlink/auth-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

const accountColumns = `id, email, phone_number, password_hash,
	email_verified_at, phone_verified_at, pending_token_hash, pending_token_expires_at,
	roles, provider, provider_id, provider_access_token, provider_refresh_token,
	name, gender, age, location, avatar_key, created_at, updated_at`

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PhoneNumber, &a.PasswordHash,
		&a.EmailVerifiedAt, &a.PhoneVerifiedAt, &a.PendingTokenHash, &a.PendingTokenExpiresAt,
		&a.Roles, &a.Provider, &a.ProviderID, &a.ProviderAccessToken, &a.ProviderRefreshToken,
		&a.Name, &a.Gender, &a.Age, &a.Location, &a.AvatarKey, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// mapUniqueViolation turns a postgres unique violation into the
// taxonomy error for the colliding column.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "accounts_email_key":
			return model.ErrEmailTaken
		case "accounts_phone_number_key":
			return model.ErrPhoneTaken
		}
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByPhone(ctx context.Context, phoneNumber string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone_number = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by phone: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (
			id, email, phone_number, password_hash,
			email_verified_at, phone_verified_at, pending_token_hash, pending_token_expires_at,
			roles, provider, provider_id, provider_access_token, provider_refresh_token,
			name, gender, age, location, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, account.Email, account.PhoneNumber, account.PasswordHash,
		account.EmailVerifiedAt, account.PhoneVerifiedAt, account.PendingTokenHash, account.PendingTokenExpiresAt,
		account.Roles, account.Provider, account.ProviderID, account.ProviderAccessToken, account.ProviderRefreshToken,
		account.Name, account.Gender, account.Age, account.Location, account.CreatedAt, account.UpdatedAt,
	))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return model.Account{}, mapped
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func (r *AccountRepository) SetPendingVerification(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE accounts
			  SET pending_token_hash = $2, pending_token_expires_at = $3, updated_at = NOW()
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set pending verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// ConfirmEmail is conditioned on the exact stored hash so two
// concurrent confirms consume the token exactly once.
func (r *AccountRepository) ConfirmEmail(ctx context.Context, id uuid.UUID, tokenHash string, verifiedAt time.Time) (bool, error) {
	query := `UPDATE accounts
			  SET email_verified_at = $3, pending_token_hash = NULL, pending_token_expires_at = NULL, updated_at = NOW()
			  WHERE id = $1 AND pending_token_hash = $2`

	tag, err := r.db.Exec(ctx, query, id, tokenHash, verifiedAt)
	if err != nil {
		return false, fmt.Errorf("failed to confirm email: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AccountRepository) ConfirmPhone(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	query := `UPDATE accounts SET phone_verified_at = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, verifiedAt)
	if err != nil {
		return fmt.Errorf("failed to confirm phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// ReplaceSentinelRole swaps the sentinel for the final role in one
// conditional update; the sentinel-present condition makes the
// transition single use.
func (r *AccountRepository) ReplaceSentinelRole(ctx context.Context, id uuid.UUID, role string) (bool, error) {
	query := `UPDATE accounts SET roles = ARRAY[$2], updated_at = NOW()
			  WHERE id = $1 AND $3 = ANY(roles)`

	tag, err := r.db.Exec(ctx, query, id, role, model.RoleUnverified)
	if err != nil {
		return false, fmt.Errorf("failed to replace sentinel role: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AccountRepository) CompleteProfile(ctx context.Context, id uuid.UUID, profile model.Profile, role string) (bool, error) {
	query := `UPDATE accounts
			  SET age = $2, gender = $3, location = $4,
			      phone_number = COALESCE($5, phone_number),
			      roles = ARRAY[$6], updated_at = NOW()
			  WHERE id = $1 AND $7 = ANY(roles)`

	tag, err := r.db.Exec(ctx, query, id, profile.Age, profile.Gender, profile.Location,
		profile.PhoneNumber, role, model.RoleUnverified)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return false, mapped
		}
		return false, fmt.Errorf("failed to complete profile: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AccountRepository) UpdateProviderLink(ctx context.Context, id uuid.UUID, link model.ProviderLink) error {
	query := `UPDATE accounts
			  SET provider = $2, provider_id = $3,
			      provider_access_token = COALESCE($4, provider_access_token),
			      provider_refresh_token = COALESCE($5, provider_refresh_token),
			      updated_at = NOW()
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, link.Provider, link.ProviderID, link.AccessToken, link.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update provider link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *AccountRepository) SetAvatarKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `UPDATE accounts SET avatar_key = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("failed to set avatar key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
