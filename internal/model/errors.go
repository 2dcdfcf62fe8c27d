package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates no account matched a lookup-by-identifier.
	ErrNotFound = errors.New("account not found")
	// ErrEmailTaken indicates an email uniqueness violation.
	ErrEmailTaken = errors.New("email already taken")
	// ErrPhoneTaken indicates a phone number uniqueness violation.
	ErrPhoneTaken = errors.New("phone number already taken")
	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers an absent, mismatched, or expired
	// verification token or one-time code. Deliberately one class.
	ErrInvalidToken = errors.New("invalid or expired verification token")
	// ErrEmailNotVerified is returned after credentials were confirmed
	// correct but the email channel is still unverified.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrPhoneNotVerified is the phone-channel counterpart for accounts
	// registered without an email.
	ErrPhoneNotVerified = errors.New("phone number not verified")
	// ErrAlreadyVerified signals a resend request for an already
	// verified channel.
	ErrAlreadyVerified = errors.New("already verified")
	// ErrRoleAlreadyAssigned signals a second role transition attempt.
	ErrRoleAlreadyAssigned = errors.New("role already assigned")
	// ErrRateLimited signals an active resend cooldown.
	ErrRateLimited = errors.New("rate limited")
	// ErrMissingEmail signals an external identity without an email.
	ErrMissingEmail = errors.New("external identity has no email")
	// ErrDeliveryFailed signals an outbound send failure; the issued
	// token or code stays valid for a later resend.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrTransient signals a downstream timeout; safe to retry.
	ErrTransient = errors.New("transient failure")
	// ErrUnauthenticated signals a missing or unusable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from alternating
// field/message pairs.
func NewValidationError(pairs ...string) *ValidationError {
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
