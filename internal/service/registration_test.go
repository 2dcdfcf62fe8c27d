package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/testutil"
)

func strptr(s string) *string { return &s }

func newRegistration(t *testing.T) (*Registration, verificationDeps) {
	t.Helper()
	v, deps := newVerification(t)
	r := NewRegistration(deps.accounts, deps.hasher, v, testutil.MakeNoopLogger())
	return r, deps
}

func TestRegistration_Register_Email(t *testing.T) {
	ctx := context.Background()
	r, deps := newRegistration(t)

	deps.hasher.On("Hash", "hunter2hunter2").Return("pw-digest", nil).Once()
	deps.accounts.On("Create", mock.MatchedBy(func(_ context.Context) bool { return true }),
		mock.MatchedBy(func(a model.Account) bool {
			return a.Email != nil && *a.Email == "a@example.com" &&
				a.PasswordHash != nil && *a.PasswordHash == "pw-digest" &&
				len(a.Roles) == 1 && a.Roles[0] == model.RoleUnverified &&
				a.EmailVerifiedAt == nil
		})).Return(func(_ context.Context, a model.Account) model.Account { return a }, nil)
	// verification kickoff
	deps.hasher.On("Hash", mock.Anything).Return("tok-digest", nil)
	deps.accounts.On("SetPendingVerification", mock.Anything, mock.Anything, "tok-digest", mock.Anything).Return(nil)
	deps.notifier.On("SendEmail", mock.Anything, "a@example.com", mock.Anything, mock.Anything).Return(nil)

	result, err := r.Register(ctx, RegisterInput{
		Name:     "Ada",
		Email:    strptr("a@example.com"),
		Password: strptr("hunter2hunter2"),
	})
	require.NoError(t, err)
	assert.True(t, result.VerificationRequired)
	assert.Equal(t, "email", result.VerificationMethod)
	deps.notifier.AssertExpectations(t)
}

func TestRegistration_Register_PhoneOnlyNoPassword(t *testing.T) {
	ctx := context.Background()
	r, deps := newRegistration(t)

	deps.accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
		// password login stays impossible until a password is set
		return a.PasswordHash == nil && a.PhoneNumber != nil && *a.PhoneNumber == "+15550001111"
	})).Return(func(_ context.Context, a model.Account) model.Account { return a }, nil)
	deps.codes.On("MarkCooldown", mock.Anything, "+15550001111", time.Minute).Return(true, nil)
	deps.codes.On("Save", mock.Anything, "+15550001111", mock.Anything, 10*time.Minute).Return(nil)
	deps.notifier.On("SendSMS", mock.Anything, "+15550001111", mock.Anything).Return(nil)

	result, err := r.Register(ctx, RegisterInput{
		Name:        "Ada",
		PhoneNumber: strptr("+15550001111"),
	})
	require.NoError(t, err)
	assert.Equal(t, "phone", result.VerificationMethod)
	deps.hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestRegistration_Register_FinalRoleAtCreation(t *testing.T) {
	ctx := context.Background()
	r, deps := newRegistration(t)

	deps.hasher.On("Hash", mock.Anything).Return("digest", nil)
	deps.accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
		return len(a.Roles) == 1 && a.Roles[0] == model.RoleBuyer
	})).Return(func(_ context.Context, a model.Account) model.Account { return a }, nil)
	deps.accounts.On("SetPendingVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	deps.notifier.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := r.Register(ctx, RegisterInput{
		Name:     "Ada",
		Email:    strptr("a@example.com"),
		Password: strptr("hunter2hunter2"),
		Role:     strptr(model.RoleBuyer),
	})
	require.NoError(t, err)
}

func TestRegistration_Register_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{
			name:  "missing name",
			input: RegisterInput{Email: strptr("a@example.com"), Password: strptr("hunter2hunter2")},
			field: "name",
		},
		{
			name:  "no contact channel",
			input: RegisterInput{Name: "Ada", Password: strptr("hunter2hunter2")},
			field: "email",
		},
		{
			name:  "malformed email",
			input: RegisterInput{Name: "Ada", Email: strptr("not-an-email"), Password: strptr("hunter2hunter2")},
			field: "email",
		},
		{
			name:  "email without password",
			input: RegisterInput{Name: "Ada", Email: strptr("a@example.com")},
			field: "password",
		},
		{
			name:  "short password",
			input: RegisterInput{Name: "Ada", Email: strptr("a@example.com"), Password: strptr("short")},
			field: "password",
		},
		{
			name: "admin not self-assignable",
			input: RegisterInput{Name: "Ada", Email: strptr("a@example.com"),
				Password: strptr("hunter2hunter2"), Role: strptr(model.RoleAdmin)},
			field: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRegistration(t)
			_, err := r.Register(ctx, tt.input)
			ve, ok := model.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestRegistration_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	r, deps := newRegistration(t)

	deps.hasher.On("Hash", mock.Anything).Return("digest", nil)
	deps.accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrEmailTaken)

	_, err := r.Register(ctx, RegisterInput{
		Name:     "Ada",
		Email:    strptr("a@example.com"),
		Password: strptr("hunter2hunter2"),
	})
	require.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestRegistration_Register_DeliveryFailureStillCreates(t *testing.T) {
	ctx := context.Background()
	r, deps := newRegistration(t)

	deps.hasher.On("Hash", "hunter2hunter2").Return("pw-digest", nil).Once()
	deps.accounts.On("Create", mock.Anything, mock.Anything).
		Return(func(_ context.Context, a model.Account) model.Account { return a }, nil)
	deps.hasher.On("Hash", mock.Anything).Return("tok-digest", nil)
	deps.accounts.On("SetPendingVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	deps.notifier.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.ErrDeliveryFailed)

	result, err := r.Register(ctx, RegisterInput{
		Name:     "Ada",
		Email:    strptr("a@example.com"),
		Password: strptr("hunter2hunter2"),
	})
	require.ErrorIs(t, err, model.ErrDeliveryFailed)
	// the account came back with the result despite the failed send
	assert.True(t, result.VerificationRequired)
	assert.Equal(t, "email", result.VerificationMethod)
}
