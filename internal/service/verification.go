package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/secret"
)

const (
	emailTokenLength = 60
	phoneCodeDigits  = 6
)

// VerificationConfig carries the tunables of the verification flows.
type VerificationConfig struct {
	EmailTokenTTL  time.Duration
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

// Verification drives the email and phone verification channels. Email
// uses a long random token stored hashed on the account; phone uses a
// short-lived one-time code held in the code store.
type Verification struct {
	accountStore model.AccountStore
	codeStore    model.CodeStore
	hasher       model.Hasher
	notifier     model.Notifier
	sessions     *SessionService
	config       VerificationConfig
	logger       *logger.Logger
}

func NewVerification(
	accountStore model.AccountStore,
	codeStore model.CodeStore,
	hasher model.Hasher,
	notifier model.Notifier,
	sessions *SessionService,
	config VerificationConfig,
	logger *logger.Logger,
) *Verification {
	return &Verification{
		accountStore: accountStore,
		codeStore:    codeStore,
		hasher:       hasher,
		notifier:     notifier,
		sessions:     sessions,
		config:       config,
		logger:       logger,
	}
}

// ConfirmResult is returned by a successful confirm: the account with
// its updated verification state and a fresh session token, so the
// client is logged in without a separate login round trip.
type ConfirmResult struct {
	Token   string
	Account model.Account
}

// RequestEmail issues a fresh email verification token for the account
// and sends it out. Any previously pending token is replaced.
func (v *Verification) RequestEmail(ctx context.Context, email string) error {
	v.logger.Debug("Verification service: email verification requested",
		"email", email)

	account, err := v.accountStore.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get account by email: %w", err)
	}

	if account.EmailVerified() {
		return model.ErrAlreadyVerified
	}

	return v.issueEmailToken(ctx, account)
}

// issueEmailToken generates, stores and delivers a verification token
// for the account's email. Called from registration and from resend.
func (v *Verification) issueEmailToken(ctx context.Context, account model.Account) error {
	if account.Email == nil {
		return model.NewValidationError("email", "account has no email")
	}

	token, err := secret.RandomToken(emailTokenLength)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	digest, err := v.hasher.Hash(token)
	if err != nil {
		return fmt.Errorf("failed to hash verification token: %w", err)
	}

	expiresAt := time.Now().Add(v.config.EmailTokenTTL)
	if err := v.accountStore.SetPendingVerification(ctx, account.ID, digest, expiresAt); err != nil {
		v.logger.Error("Verification service: failed to store pending token",
			"account_id", account.ID,
			"error", err.Error())
		return fmt.Errorf("failed to store pending token: %w", err)
	}

	body := fmt.Sprintf("Your verification token: %s", token)
	if err := v.notifier.SendEmail(ctx, *account.Email, "Verify your email", body); err != nil {
		// the stored token stays valid for a later resend
		v.logger.Error("Verification service: email delivery failed",
			"account_id", account.ID,
			"error", err.Error())
		if errors.Is(err, model.ErrTransient) {
			return err
		}
		return model.ErrDeliveryFailed
	}

	v.logger.Info("Verification service: email token issued",
		"account_id", account.ID)

	return nil
}

// ConfirmEmail consumes a presented token for the email. The stored
// hash is cleared in the same conditional update that marks the channel
// verified, so a token is consumed at most once. A successful confirm
// logs the account in: the result carries a fresh session token.
func (v *Verification) ConfirmEmail(ctx context.Context, email, token string) (*ConfirmResult, error) {
	v.logger.Debug("Verification service: email confirmation",
		"email", email)

	account, err := v.accountStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	if account.PendingTokenHash == nil || account.PendingTokenExpiresAt == nil {
		return nil, model.ErrInvalidToken
	}
	if time.Now().After(*account.PendingTokenExpiresAt) {
		return nil, model.ErrInvalidToken
	}
	if !v.hasher.Verify(token, *account.PendingTokenHash) {
		return nil, model.ErrInvalidToken
	}

	ok, err := v.accountStore.ConfirmEmail(ctx, account.ID, *account.PendingTokenHash, time.Now())
	if err != nil {
		v.logger.Error("Verification service: failed to confirm email",
			"account_id", account.ID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to confirm email: %w", err)
	}
	if !ok {
		// lost the race: idempotent when the other confirm already
		// verified the channel
		current, err := v.accountStore.GetByID(ctx, account.ID)
		if err == nil && current.EmailVerified() {
			return v.finishConfirm(ctx, account.ID)
		}
		return nil, model.ErrInvalidToken
	}

	v.logger.Info("Verification service: email verified",
		"account_id", account.ID)

	return v.finishConfirm(ctx, account.ID)
}

// RequestPhoneCode issues a one-time code for the phone number,
// subject to the resend cooldown.
func (v *Verification) RequestPhoneCode(ctx context.Context, phoneNumber string) error {
	v.logger.Debug("Verification service: phone code requested",
		"phone", phoneNumber)

	account, err := v.accountStore.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return fmt.Errorf("failed to get account by phone: %w", err)
	}

	if account.PhoneVerified() {
		return model.ErrAlreadyVerified
	}

	return v.issuePhoneCode(ctx, phoneNumber)
}

// ResendPhoneCode issues a replacement code under the same cooldown.
func (v *Verification) ResendPhoneCode(ctx context.Context, phoneNumber string) error {
	return v.RequestPhoneCode(ctx, phoneNumber)
}

func (v *Verification) issuePhoneCode(ctx context.Context, phoneNumber string) error {
	ok, err := v.codeStore.MarkCooldown(ctx, phoneNumber, v.config.ResendCooldown)
	if err != nil {
		return fmt.Errorf("failed to mark cooldown: %w", err)
	}
	if !ok {
		return model.ErrRateLimited
	}

	code, err := secret.RandomCode(phoneCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	if err := v.codeStore.Save(ctx, phoneNumber, code, v.config.CodeTTL); err != nil {
		v.logger.Error("Verification service: failed to save code",
			"phone", phoneNumber,
			"error", err.Error())
		return fmt.Errorf("failed to save code: %w", err)
	}

	message := fmt.Sprintf("Your verification code: %s", code)
	if err := v.notifier.SendSMS(ctx, phoneNumber, message); err != nil {
		// the stored code stays valid for a later resend
		v.logger.Error("Verification service: sms delivery failed",
			"phone", phoneNumber,
			"error", err.Error())
		if errors.Is(err, model.ErrTransient) {
			return err
		}
		return model.ErrDeliveryFailed
	}

	v.logger.Info("Verification service: phone code issued",
		"phone", phoneNumber)

	return nil
}

// ConfirmPhoneCode consumes a presented code and marks the phone
// verified. Consumption is atomic in the code store; a matched code is
// gone even if two confirms race. A successful confirm logs the
// account in: the result carries a fresh session token.
func (v *Verification) ConfirmPhoneCode(ctx context.Context, phoneNumber, code string) (*ConfirmResult, error) {
	v.logger.Debug("Verification service: phone confirmation",
		"phone", phoneNumber)

	account, err := v.accountStore.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by phone: %w", err)
	}

	if err := v.codeStore.Consume(ctx, phoneNumber, code, v.config.MaxAttempts); err != nil {
		return nil, err
	}

	if err := v.accountStore.ConfirmPhone(ctx, account.ID, time.Now()); err != nil {
		v.logger.Error("Verification service: failed to confirm phone",
			"account_id", account.ID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to confirm phone: %w", err)
	}

	v.logger.Info("Verification service: phone verified",
		"account_id", account.ID)

	return v.finishConfirm(ctx, account.ID)
}

// finishConfirm reloads the account after the verifying update and
// issues the post-confirm session.
func (v *Verification) finishConfirm(ctx context.Context, accountID uuid.UUID) (*ConfirmResult, error) {
	account, err := v.accountStore.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	token, err := v.sessions.Issue(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &ConfirmResult{
		Token:   token,
		Account: account,
	}, nil
}
