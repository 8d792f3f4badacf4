package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/authcore/domain"
	"github.com/utafrali/authcore/pkg/database"
	apperrors "github.com/utafrali/authcore/pkg/errors"
)

// CredentialStore implements store.CredentialStore using PostgreSQL.
type CredentialStore struct {
	pool database.DBTX
}

// NewCredentialStore creates a new PostgreSQL-backed credential store.
func NewCredentialStore(pool database.DBTX) *CredentialStore {
	return &CredentialStore{pool: pool}
}

// GetByEmail retrieves an identity by email, case-insensitively.
func (s *CredentialStore) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `
		SELECT id, email, password_hash, role, failed_attempts, locked_until, created_at, updated_at
		FROM identities
		WHERE lower(email) = lower($1)`

	return s.scanIdentity(ctx, query, email)
}

// GetByID retrieves an identity by subject id.
func (s *CredentialStore) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	query := `
		SELECT id, email, password_hash, role, failed_attempts, locked_until, created_at, updated_at
		FROM identities
		WHERE id = $1`

	return s.scanIdentity(ctx, query, id)
}

// RecordFailure registers a failed attempt in a single atomic statement, so
// concurrent failures never collapse into one increment. A failure recorded
// after an expired lock restarts the counter and drops the stale deadline.
func (s *CredentialStore) RecordFailure(ctx context.Context, id string, threshold int, lockDuration time.Duration, now time.Time) (domain.LockoutState, error) {
	lockUntil := now.Add(lockDuration)

	query := `
		UPDATE identities
		SET failed_attempts = CASE
		        WHEN locked_until IS NOT NULL AND locked_until <= $4 THEN 1
		        ELSE failed_attempts + 1
		    END,
		    locked_until = CASE
		        WHEN locked_until IS NOT NULL AND locked_until <= $4 THEN
		            CASE WHEN $2 > 0 AND $2 <= 1 THEN $3 END
		        WHEN $2 > 0 AND failed_attempts + 1 >= $2 THEN $3
		        ELSE locked_until
		    END,
		    updated_at = $4
		WHERE id = $1
		RETURNING failed_attempts, locked_until`

	var state domain.LockoutState
	err := s.pool.QueryRow(ctx, query, id, threshold, lockUntil, now).Scan(
		&state.FailedAttempts,
		&state.LockedUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LockoutState{}, apperrors.ErrNotFound
		}
		return domain.LockoutState{}, apperrors.StoreUnavailable(fmt.Errorf("record failed attempt: %w", err))
	}

	return state, nil
}

// RecordSuccess unconditionally clears the identity's lockout state.
func (s *CredentialStore) RecordSuccess(ctx context.Context, id string) error {
	query := `
		UPDATE identities
		SET failed_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE id = $1`

	ct, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("reset lockout state: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// scanIdentity executes a query expected to return a single identity row.
func (s *CredentialStore) scanIdentity(ctx context.Context, query string, args ...any) (*domain.Identity, error) {
	var identity domain.Identity

	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Role,
		&identity.Lockout.FailedAttempts,
		&identity.Lockout.LockedUntil,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("scan identity: %w", err))
	}

	return &identity, nil
}
