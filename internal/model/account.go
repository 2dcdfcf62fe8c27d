package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts. Every
// read-then-write transition is expressed as a conditional update so the
// store enforces single-use consumption, not the caller.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByPhone(ctx context.Context, phoneNumber string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)

	// SetPendingVerification stores the hash of a freshly issued email
	// verification token together with its expiry, replacing any prior
	// pending token.
	SetPendingVerification(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error

	// ConfirmEmail marks the email verified and clears the pending token
	// fields in one update conditioned on the exact stored hash. Returns
	// false when the condition did not hold (token already consumed or
	// replaced).
	ConfirmEmail(ctx context.Context, id uuid.UUID, tokenHash string, verifiedAt time.Time) (bool, error)

	// ConfirmPhone marks the phone verified.
	ConfirmPhone(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error

	// ReplaceSentinelRole swaps the unverified sentinel for the given
	// final role. Returns false when the account no longer holds the
	// sentinel.
	ReplaceSentinelRole(ctx context.Context, id uuid.UUID, role string) (bool, error)

	// CompleteProfile applies profile fields and the sentinel role swap
	// as one update. Returns false when the sentinel is gone.
	CompleteProfile(ctx context.Context, id uuid.UUID, profile Profile, role string) (bool, error)

	// UpdateProviderLink refreshes the external identity linkage fields
	// without touching profile data.
	UpdateProviderLink(ctx context.Context, id uuid.UUID, link ProviderLink) error

	// SetAvatarKey records the object storage key of the profile photo.
	SetAvatarKey(ctx context.Context, id uuid.UUID, key string) error
}

// Account represents a stored account with credentials, verification
// state, role set and optional external identity linkage.
type Account struct {
	ID          uuid.UUID
	Email       *string
	PhoneNumber *string

	PasswordHash *string

	EmailVerifiedAt       *time.Time
	PhoneVerifiedAt       *time.Time
	PendingTokenHash      *string
	PendingTokenExpiresAt *time.Time

	Roles []string

	Provider             *string
	ProviderID           *string
	ProviderAccessToken  *string
	ProviderRefreshToken *string

	Name      string
	Gender    *string
	Age       *int
	Location  *string
	AvatarKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile carries the fields settable through the profile completion
// step. PhoneNumber is optional there.
type Profile struct {
	Age         int
	Gender      string
	Location    string
	PhoneNumber *string
}

// ProviderLink is the external identity linkage stored on an account.
type ProviderLink struct {
	Provider     string
	ProviderID   string
	AccessToken  *string
	RefreshToken *string
}

// HasRole reports whether the account's role set contains name.
func (a Account) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// EmailVerified reports whether the email channel has been verified.
func (a Account) EmailVerified() bool {
	return a.EmailVerifiedAt != nil
}

// PhoneVerified reports whether the phone channel has been verified.
func (a Account) PhoneVerified() bool {
	return a.PhoneVerifiedAt != nil
}

// VerificationStatus summarizes channel verification for callers.
type VerificationStatus struct {
	EmailVerified        bool `json:"email_verified"`
	PhoneVerified        bool `json:"phone_verified"`
	VerificationComplete bool `json:"verification_complete"`
}

// Projection is the outward-facing view of an account. It never carries
// the password hash, provider tokens, or pending verification fields.
type Projection struct {
	ID          uuid.UUID          `json:"id"`
	Email       *string            `json:"email"`
	PhoneNumber *string            `json:"phone_number"`
	Name        string             `json:"name"`
	Gender      *string            `json:"gender"`
	Age         *int               `json:"age"`
	Location    *string            `json:"location"`
	Provider    *string            `json:"provider,omitempty"`
	AvatarKey   *string            `json:"avatar_key,omitempty"`
	Roles       []string           `json:"roles"`
	Status      VerificationStatus `json:"verification_status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Projection builds the outward-facing view of the account.
func (a Account) Projection() Projection {
	roles := make([]string, len(a.Roles))
	copy(roles, a.Roles)

	return Projection{
		ID:          a.ID,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Name:        a.Name,
		Gender:      a.Gender,
		Age:         a.Age,
		Location:    a.Location,
		Provider:    a.Provider,
		AvatarKey:   a.AvatarKey,
		Roles:       roles,
		Status: VerificationStatus{
			EmailVerified:        a.EmailVerified(),
			PhoneVerified:        a.PhoneVerified(),
			VerificationComplete: a.EmailVerified() || a.PhoneVerified(),
		},
		CreatedAt: a.CreatedAt,
	}
}
