package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// Social bridges an external identity provider into local accounts:
// link to the existing account with the same email, or create a fresh
// one with the email channel already verified.
type Social struct {
	accountStore model.AccountStore
	resolver     model.IdentityResolver
	sessions     *SessionService
	logger       *logger.Logger
}

func NewSocial(
	accountStore model.AccountStore,
	resolver model.IdentityResolver,
	sessions *SessionService,
	logger *logger.Logger,
) *Social {
	return &Social{
		accountStore: accountStore,
		resolver:     resolver,
		sessions:     sessions,
		logger:       logger,
	}
}

// AuthURL returns the provider consent page URL for the state value.
func (s *Social) AuthURL(state string) string {
	return s.resolver.AuthURL(state)
}

// SocialLoginResult carries the issued session plus whether the account
// still needs the profile completion step.
type SocialLoginResult struct {
	Token                 string
	Account               model.Account
	RequiresProfileUpdate bool
}

// LinkOrCreate exchanges the authorization code and signs the resolved
// identity in. Matching runs on the provider email; an existing
// account keeps its profile, a new one is created with the email
// already verified.
func (s *Social) LinkOrCreate(ctx context.Context, code string) (SocialLoginResult, error) {
	s.logger.Debug("Social service: code exchange")

	identity, err := s.resolver.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Social service: exchange failed",
			"error", err.Error())
		return SocialLoginResult{}, fmt.Errorf("failed to exchange code: %w", err)
	}
	if identity.Email == "" {
		return SocialLoginResult{}, model.ErrMissingEmail
	}

	account, err := s.accountStore.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		account, err = s.link(ctx, account, identity)
	case errors.Is(err, model.ErrNotFound):
		account, err = s.create(ctx, identity)
	default:
		return SocialLoginResult{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	if err != nil {
		return SocialLoginResult{}, err
	}

	token, err := s.sessions.Issue(ctx, account.ID)
	if err != nil {
		return SocialLoginResult{}, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info("Social service: signed in",
		"account_id", account.ID,
		"provider", identity.Provider)

	return SocialLoginResult{
		Token:                 token,
		Account:               account,
		RequiresProfileUpdate: requiresProfileUpdate(account),
	}, nil
}

// link refreshes the provider linkage on an existing account without
// touching its profile or verification state.
func (s *Social) link(ctx context.Context, account model.Account, identity model.ExternalIdentity) (model.Account, error) {
	link := model.ProviderLink{
		Provider:   identity.Provider,
		ProviderID: identity.ProviderID,
	}
	if identity.AccessToken != "" {
		link.AccessToken = &identity.AccessToken
	}
	if identity.RefreshToken != "" {
		link.RefreshToken = &identity.RefreshToken
	}

	if err := s.accountStore.UpdateProviderLink(ctx, account.ID, link); err != nil {
		s.logger.Error("Social service: failed to update provider link",
			"account_id", account.ID,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to update provider link: %w", err)
	}

	return s.accountStore.GetByID(ctx, account.ID)
}

// create provisions a new account from the external identity. The
// provider vouches for the email, so the channel starts verified and
// no password hash is set.
func (s *Social) create(ctx context.Context, identity model.ExternalIdentity) (model.Account, error) {
	now := time.Now()
	account := model.Account{
		ID:              uuid.New(),
		Email:           &identity.Email,
		EmailVerifiedAt: &now,
		Roles:           []string{model.RoleUnverified},
		Provider:        &identity.Provider,
		ProviderID:      &identity.ProviderID,
		Name:            identity.Name,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if identity.AccessToken != "" {
		account.ProviderAccessToken = &identity.AccessToken
	}
	if identity.RefreshToken != "" {
		account.ProviderRefreshToken = &identity.RefreshToken
	}

	saved, err := s.accountStore.Create(ctx, account)
	if err != nil {
		s.logger.Error("Social service: failed to create account",
			"email", identity.Email,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

// requiresProfileUpdate reports whether the account still needs the
// profile completion step after a social sign-in.
func requiresProfileUpdate(a model.Account) bool {
	return a.HasRole(model.RoleUnverified) || a.Age == nil || a.Gender == nil || a.Location == nil
}
