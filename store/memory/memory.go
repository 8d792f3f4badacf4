// Package memory provides mutex-guarded in-memory store implementations.
// They serve tests and single-process deployments; the interfaces keep them
// swappable for the Postgres and Redis implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/utafrali/authcore/domain"
	apperrors "github.com/utafrali/authcore/pkg/errors"
	"github.com/utafrali/authcore/lockout"
)

// CredentialStore is an in-memory store.CredentialStore. All lockout updates
// happen under the lock, so concurrent failures never lose an increment.
type CredentialStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Identity
	idByKey map[string]string // normalized email -> id
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		byID:    make(map[string]*domain.Identity),
		idByKey: make(map[string]string),
	}
}

// Put inserts or replaces an identity. Emails are unique case-insensitively.
func (s *CredentialStore) Put(identity *domain.Identity) error {
	key := domain.NormalizeEmail(identity.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.idByKey[key]; ok && existing != identity.ID {
		return apperrors.AlreadyExists("identity", "email", identity.Email)
	}

	clone := *identity
	s.byID[identity.ID] = &clone
	s.idByKey[key] = identity.ID
	return nil
}

// GetByEmail retrieves an identity by email, case-insensitively.
func (s *CredentialStore) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByKey[domain.NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *s.byID[id]
	return &clone, nil
}

// GetByID retrieves an identity by subject id.
func (s *CredentialStore) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *identity
	return &clone, nil
}

// RecordFailure applies the lockout transition atomically and returns the
// updated state.
func (s *CredentialStore) RecordFailure(_ context.Context, id string, threshold int, lockDuration time.Duration, now time.Time) (domain.LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.byID[id]
	if !ok {
		return domain.LockoutState{}, apperrors.ErrNotFound
	}

	identity.Lockout = lockout.Fail(identity.Lockout, now, threshold, lockDuration)
	identity.UpdatedAt = now
	return identity.Lockout, nil
}

// RecordSuccess clears the identity's lockout state.
func (s *CredentialStore) RecordSuccess(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}

	identity.Lockout = lockout.Reset()
	return nil
}

// RevocationLedger is an in-memory store.RevocationLedger. Expired entries
// are purged opportunistically on reads.
type RevocationLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time // token hash -> entry expiry
}

// NewRevocationLedger creates an empty in-memory revocation ledger.
func NewRevocationLedger() *RevocationLedger {
	return &RevocationLedger{entries: make(map[string]time.Time)}
}

// Revoke records the token hash with the token's own expiry. Idempotent.
func (l *RevocationLedger) Revoke(_ context.Context, tokenHash string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[tokenHash] = expiresAt
	return nil
}

// IsRevoked reports whether a live entry exists for the token hash.
func (l *RevocationLedger) IsRevoked(_ context.Context, tokenHash string, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiresAt, ok := l.entries[tokenHash]
	if !ok {
		return false, nil
	}
	if !now.Before(expiresAt) {
		// The token is naturally dead; the entry is garbage.
		delete(l.entries, tokenHash)
		return false, nil
	}
	return true, nil
}

// Len reports the number of stored entries, live or expired.
func (l *RevocationLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
