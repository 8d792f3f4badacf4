package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/utafrali/authcore/pkg/database"
	apperrors "github.com/utafrali/authcore/pkg/errors"
)

// RevocationLedger implements store.RevocationLedger using PostgreSQL.
// Expired entries are filtered on read and reclaimed by PurgeExpired.
type RevocationLedger struct {
	pool database.DBTX
}

// NewRevocationLedger creates a new PostgreSQL-backed revocation ledger.
func NewRevocationLedger(pool database.DBTX) *RevocationLedger {
	return &RevocationLedger{pool: pool}
}

// Revoke records the token hash with the token's own expiry. The conflict
// clause makes re-revocation a no-op.
func (l *RevocationLedger) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at, revoked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO NOTHING`

	_, err := l.pool.Exec(ctx, query, tokenHash, expiresAt, time.Now().UTC())
	if err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("insert revocation entry: %w", err))
	}

	return nil
}

// IsRevoked reports whether a live entry exists for the token hash. Entries
// whose expiry has passed read as absent.
func (l *RevocationLedger) IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM revoked_tokens
			WHERE token_hash = $1 AND expires_at > $2
		)`

	var revoked bool
	if err := l.pool.QueryRow(ctx, query, tokenHash, now).Scan(&revoked); err != nil {
		return false, apperrors.StoreUnavailable(fmt.Errorf("check revocation entry: %w", err))
	}

	return revoked, nil
}

// PurgeExpired physically deletes entries whose expiry has passed. Purging is
// purely hygienic: expired entries are already invisible to IsRevoked.
func (l *RevocationLedger) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at <= $1`

	ct, err := l.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, apperrors.StoreUnavailable(fmt.Errorf("purge revocation entries: %w", err))
	}

	return ct.RowsAffected(), nil
}
