package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// Auth handles credential login and logout. The identifier is a single
// field resolved to the email or phone channel by shape.
type Auth struct {
	accountStore model.AccountStore
	hasher       model.Hasher
	sessions     *SessionService
	logger       *logger.Logger
}

func NewAuth(
	accountStore model.AccountStore,
	hasher model.Hasher,
	sessions *SessionService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		accountStore: accountStore,
		hasher:       hasher,
		sessions:     sessions,
		logger:       logger,
	}
}

// LoginResult carries the issued bearer token and the account view.
type LoginResult struct {
	Token   string
	Account model.Account
}

// Login checks credentials and the verification gate, then issues a
// session. Unknown identifier and wrong password are indistinguishable
// to the caller.
func (a *Auth) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	a.logger.Debug("Auth service: login attempt")

	var (
		account model.Account
		err     error
	)
	if _, mailErr := mail.ParseAddress(identifier); mailErr == nil {
		account, err = a.accountStore.GetByEmail(ctx, identifier)
	} else {
		account, err = a.accountStore.GetByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return LoginResult{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: account lookup failed",
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to get account: %w", err)
	}

	// social-only accounts carry no password hash
	if account.PasswordHash == nil {
		return LoginResult{}, model.ErrInvalidCredentials
	}
	if !a.hasher.Verify(password, *account.PasswordHash) {
		return LoginResult{}, model.ErrInvalidCredentials
	}

	// the gate runs on the channel the account registered with
	if account.Email != nil {
		if !account.EmailVerified() {
			return LoginResult{}, model.ErrEmailNotVerified
		}
	} else if !account.PhoneVerified() {
		return LoginResult{}, model.ErrPhoneNotVerified
	}

	token, err := a.sessions.Issue(ctx, account.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: login succeeded",
		"account_id", account.ID)

	return LoginResult{Token: token, Account: account}, nil
}

// Logout revokes the session behind the presented token's jti.
func (a *Auth) Logout(ctx context.Context, jti string) error {
	return a.sessions.Revoke(ctx, jti)
}
