package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/craftlink/auth-server/internal/mocks"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/testutil"
)

func TestRole_UpdateRole(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountStore{}
	accountID := uuid.New()

	accounts.On("ReplaceSentinelRole", mock.Anything, accountID, model.RoleArtisan).Return(true, nil)
	accounts.On("GetByID", mock.Anything, accountID).Return(model.Account{
		ID:    accountID,
		Roles: []string{model.RoleArtisan},
	}, nil)

	svc := NewRole(accounts, testutil.MakeNoopLogger())

	account, err := svc.UpdateRole(ctx, accountID, model.RoleArtisan)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleArtisan}, account.Roles)
}

func TestRole_UpdateRole_AlreadyAssigned(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountStore{}
	accountID := uuid.New()

	accounts.On("ReplaceSentinelRole", mock.Anything, accountID, model.RoleBuyer).Return(false, nil)

	svc := NewRole(accounts, testutil.MakeNoopLogger())

	_, err := svc.UpdateRole(ctx, accountID, model.RoleBuyer)
	require.ErrorIs(t, err, model.ErrRoleAlreadyAssigned)
}

func TestRole_UpdateRole_BadRole(t *testing.T) {
	ctx := context.Background()
	svc := NewRole(&mocks.AccountStore{}, testutil.MakeNoopLogger())

	tests := []string{"admin", "unverified", "superuser", ""}
	for _, role := range tests {
		t.Run(role, func(t *testing.T) {
			_, err := svc.UpdateRole(ctx, uuid.New(), role)
			_, ok := model.AsValidationError(err)
			require.True(t, ok, "expected validation error for %q, got %v", role, err)
		})
	}
}

func validProfile() ProfileInput {
	return ProfileInput{
		Role:     model.RoleArtisan,
		Age:      30,
		Gender:   "female",
		Location: "Lagos",
	}
}

func TestRole_CompleteProfile(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountStore{}
	accountID := uuid.New()
	in := validProfile()

	accounts.On("CompleteProfile", mock.Anything, accountID, model.Profile{
		Age:      30,
		Gender:   "female",
		Location: "Lagos",
	}, model.RoleArtisan).Return(true, nil)
	accounts.On("GetByID", mock.Anything, accountID).Return(model.Account{
		ID:    accountID,
		Roles: []string{model.RoleArtisan},
	}, nil)

	svc := NewRole(accounts, testutil.MakeNoopLogger())

	account, err := svc.CompleteProfile(ctx, accountID, in)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleArtisan}, account.Roles)
}

func TestRole_CompleteProfile_AlreadyAssigned(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountStore{}
	accountID := uuid.New()

	accounts.On("CompleteProfile", mock.Anything, accountID, mock.Anything, model.RoleArtisan).Return(false, nil)

	svc := NewRole(accounts, testutil.MakeNoopLogger())

	_, err := svc.CompleteProfile(ctx, accountID, validProfile())
	require.ErrorIs(t, err, model.ErrRoleAlreadyAssigned)
}

func TestRole_CompleteProfile_PhoneTaken(t *testing.T) {
	ctx := context.Background()
	accounts := &mocks.AccountStore{}
	accountID := uuid.New()

	accounts.On("CompleteProfile", mock.Anything, accountID, mock.Anything, mock.Anything).
		Return(false, model.ErrPhoneTaken)

	svc := NewRole(accounts, testutil.MakeNoopLogger())

	in := validProfile()
	in.PhoneNumber = strptr("+15550001111")
	_, err := svc.CompleteProfile(ctx, accountID, in)
	require.ErrorIs(t, err, model.ErrPhoneTaken)
}

func TestRole_CompleteProfile_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewRole(&mocks.AccountStore{}, testutil.MakeNoopLogger())

	tests := []struct {
		name   string
		mutate func(*ProfileInput)
	}{
		{"admin role", func(in *ProfileInput) { in.Role = model.RoleAdmin }},
		{"unknown role", func(in *ProfileInput) { in.Role = "wizard" }},
		{"too young", func(in *ProfileInput) { in.Age = 12 }},
		{"too old", func(in *ProfileInput) { in.Age = 121 }},
		{"unknown gender", func(in *ProfileInput) { in.Gender = "robot" }},
		{"missing location", func(in *ProfileInput) { in.Location = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProfile()
			tt.mutate(&in)
			_, err := svc.CompleteProfile(ctx, uuid.New(), in)
			_, ok := model.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
		})
	}
}
