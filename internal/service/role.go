package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// Role applies the exactly-once transition from the unverified sentinel
// to a final role, either bare or together with profile completion.
type Role struct {
	accountStore model.AccountStore
	logger       *logger.Logger
}

func NewRole(accountStore model.AccountStore, logger *logger.Logger) *Role {
	return &Role{
		accountStore: accountStore,
		logger:       logger,
	}
}

// UpdateRole swaps the sentinel for the requested final role. A second
// transition attempt fails with ErrRoleAlreadyAssigned no matter which
// role is requested.
func (r *Role) UpdateRole(ctx context.Context, accountID uuid.UUID, role string) (model.Account, error) {
	r.logger.Debug("Role service: role transition",
		"account_id", accountID,
		"role", role)

	if !model.IsAssignableRole(role) {
		return model.Account{}, model.NewValidationError("role", "unknown or reserved role")
	}

	ok, err := r.accountStore.ReplaceSentinelRole(ctx, accountID, role)
	if err != nil {
		r.logger.Error("Role service: failed to replace role",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to replace role: %w", err)
	}
	if !ok {
		return model.Account{}, model.ErrRoleAlreadyAssigned
	}

	account, err := r.accountStore.GetByID(ctx, accountID)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	r.logger.Info("Role service: role assigned",
		"account_id", accountID,
		"role", role)

	return account, nil
}

// ProfileInput carries the profile completion fields.
type ProfileInput struct {
	Role        string
	Age         int
	Gender      string
	Location    string
	PhoneNumber *string
}

func validateProfileInput(in ProfileInput) error {
	if !model.IsAssignableRole(in.Role) {
		return model.NewValidationError("role", "unknown or reserved role")
	}
	if in.Age < 13 || in.Age > 120 {
		return model.NewValidationError("age", "must be between 13 and 120")
	}
	if !model.IsKnownGender(in.Gender) {
		return model.NewValidationError("gender", "unknown gender")
	}
	if in.Location == "" {
		return model.NewValidationError("location", "required")
	}
	return nil
}

// CompleteProfile applies the profile fields and the role transition in
// one store update so a racing transition cannot interleave.
func (r *Role) CompleteProfile(ctx context.Context, accountID uuid.UUID, in ProfileInput) (model.Account, error) {
	r.logger.Debug("Role service: profile completion",
		"account_id", accountID,
		"role", in.Role)

	if err := validateProfileInput(in); err != nil {
		return model.Account{}, err
	}

	profile := model.Profile{
		Age:         in.Age,
		Gender:      in.Gender,
		Location:    in.Location,
		PhoneNumber: in.PhoneNumber,
	}

	ok, err := r.accountStore.CompleteProfile(ctx, accountID, profile, in.Role)
	if err != nil {
		r.logger.Error("Role service: failed to complete profile",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, err
	}
	if !ok {
		return model.Account{}, model.ErrRoleAlreadyAssigned
	}

	account, err := r.accountStore.GetByID(ctx, accountID)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	r.logger.Info("Role service: profile completed",
		"account_id", accountID,
		"role", in.Role)

	return account, nil
}
