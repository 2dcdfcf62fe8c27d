package model

import "context"

// ExternalIdentity is the normalized record returned by a social
// sign-on provider after the code exchange.
type ExternalIdentity struct {
	Provider     string
	ProviderID   string
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
}

// IdentityResolver exchanges provider credentials for a normalized
// external identity.
type IdentityResolver interface {
	// AuthURL returns the provider's consent page URL for the state.
	AuthURL(state string) string
	// Exchange trades an authorization code for the external identity.
	Exchange(ctx context.Context, code string) (ExternalIdentity, error)
}

// Hasher provides one-way hashing for passwords and verification
// tokens.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Notifier delivers verification payloads out of band.
type Notifier interface {
	SendEmail(ctx context.Context, address, subject, body string) error
	SendSMS(ctx context.Context, phoneNumber, message string) error
}
