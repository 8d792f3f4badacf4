// Package store defines the persistence interfaces the session core depends
// on. Implementations are injected by the caller, which owns their lifecycle;
// the core never holds a process-wide singleton store.
package store

import (
	"context"
	"time"

	"github.com/utafrali/authcore/domain"
)

// CredentialStore holds identity records. The core reads identities and
// mutates only their lockout bookkeeping.
type CredentialStore interface {
	// GetByEmail retrieves an identity by normalized (lowercased) email.
	// Returns an error wrapping errors.ErrNotFound when no identity exists.
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// GetByID retrieves an identity by subject id.
	GetByID(ctx context.Context, id string) (*domain.Identity, error)

	// RecordFailure registers a failed login attempt and returns the updated
	// lockout state. The increment must be read-modify-write safe: two
	// concurrent failures must never collapse into one.
	RecordFailure(ctx context.Context, id string, threshold int, lockDuration time.Duration, now time.Time) (domain.LockoutState, error)

	// RecordSuccess unconditionally clears the identity's lockout state.
	RecordSuccess(ctx context.Context, id string) error
}

// RevocationLedger is the denylist of invalidated refresh tokens. Entries are
// keyed by the SHA-256 hash of the raw token and expire with the token they
// revoke, so the ledger never outgrows the refresh-token TTL window.
type RevocationLedger interface {
	// Revoke records the token hash with the token's own expiry. Revoking an
	// already-revoked token is a no-op, not an error.
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error

	// IsRevoked reports whether the token hash has a live ledger entry.
	// Entries whose expiry has passed are treated as not found.
	IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error)
}
