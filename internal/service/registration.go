package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// RegisterInput carries the fields accepted at registration. At least
// one of Email and PhoneNumber is required; a password is mandatory
// with an email and optional with a phone-only registration.
type RegisterInput struct {
	Name        string
	Email       *string
	PhoneNumber *string
	Password    *string
	Role        *string
}

// RegistrationResult reports the created account and which channel was
// used to kick off verification. No session token is issued here.
type RegistrationResult struct {
	Account              model.Account
	VerificationRequired bool
	VerificationMethod   string
}

// Registration creates accounts and starts the verification flow for
// the registered contact channel.
type Registration struct {
	accountStore model.AccountStore
	hasher       model.Hasher
	verification *Verification
	logger       *logger.Logger
}

func NewRegistration(
	accountStore model.AccountStore,
	hasher model.Hasher,
	verification *Verification,
	logger *logger.Logger,
) *Registration {
	return &Registration{
		accountStore: accountStore,
		hasher:       hasher,
		verification: verification,
		logger:       logger,
	}
}

func validateRegisterInput(in RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return model.NewValidationError("name", "required")
	}
	if in.Email == nil && in.PhoneNumber == nil {
		return model.NewValidationError("email", "email or phone number required")
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return model.NewValidationError("email", "malformed address")
		}
		if in.Password == nil {
			return model.NewValidationError("password", "required with email")
		}
	}
	if in.Password != nil && len(*in.Password) < 8 {
		return model.NewValidationError("password", "must be at least 8 characters")
	}
	if in.Role != nil && !model.IsAssignableRole(*in.Role) {
		return model.NewValidationError("role", "unknown role")
	}
	return nil
}

// Register creates the account and kicks off verification on the
// registered channel. Uniqueness violations surface as ErrEmailTaken
// or ErrPhoneTaken from the store.
func (r *Registration) Register(ctx context.Context, in RegisterInput) (RegistrationResult, error) {
	r.logger.Debug("Registration service: registering account",
		"name", in.Name)

	if err := validateRegisterInput(in); err != nil {
		return RegistrationResult{}, err
	}

	var passwordHash *string
	if in.Password != nil {
		digest, err := r.hasher.Hash(*in.Password)
		if err != nil {
			return RegistrationResult{}, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &digest
	}

	// a final role may be granted at creation; otherwise the sentinel
	// holds the slot until the transition
	role := model.RoleUnverified
	if in.Role != nil {
		role = *in.Role
	}

	now := time.Now()
	account := model.Account{
		ID:           uuid.New(),
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: passwordHash,
		Roles:        []string{role},
		Name:         in.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := r.accountStore.Create(ctx, account)
	if err != nil {
		r.logger.Error("Registration service: failed to create account",
			"name", in.Name,
			"error", err.Error())
		return RegistrationResult{}, err
	}

	result := RegistrationResult{
		Account:              saved,
		VerificationRequired: true,
	}

	if saved.Email != nil {
		result.VerificationMethod = "email"
		err = r.verification.issueEmailToken(ctx, saved)
	} else {
		result.VerificationMethod = "phone"
		err = r.verification.issuePhoneCode(ctx, *saved.PhoneNumber)
	}
	if err != nil {
		// the account exists; delivery can be retried through resend
		r.logger.Error("Registration service: verification kickoff failed",
			"account_id", saved.ID,
			"method", result.VerificationMethod,
			"error", err.Error())
		return result, err
	}

	r.logger.Info("Registration service: account registered",
		"account_id", saved.ID,
		"method", result.VerificationMethod)

	return result, nil
}
