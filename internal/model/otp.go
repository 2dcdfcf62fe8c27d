package model

import (
	"context"
	"time"
)

// CodeStore holds one-time phone codes with per-key expiry. Entries are
// keyed by phone number; a new issue overwrites any existing entry.
type CodeStore interface {
	// Save stores the code for the phone number with the given TTL,
	// resetting the attempt counter.
	Save(ctx context.Context, phoneNumber, code string, ttl time.Duration) error

	// Consume compares the presented code against the stored entry as
	// one atomic step. On match the entry is deleted (single use). On
	// mismatch the attempt counter is incremented and the entry is
	// deleted once maxAttempts is reached. Returns ErrInvalidToken for
	// an absent, expired, or mismatched code.
	Consume(ctx context.Context, phoneNumber, presented string, maxAttempts int) error

	// Delete removes any outstanding entry for the phone number.
	Delete(ctx context.Context, phoneNumber string) error

	// MarkCooldown sets the resend cooldown marker if none exists.
	// Returns false when a marker is already active.
	MarkCooldown(ctx context.Context, phoneNumber string, d time.Duration) (bool, error)
}

// CodeEntry is the stored shape of a one-time code.
type CodeEntry struct {
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}
