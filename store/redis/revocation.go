// Package redis provides a Redis-backed revocation ledger. Entries carry a
// TTL equal to the revoked token's remaining lifetime, so the denylist
// self-expires without any purge job.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/authcore/pkg/errors"
)

const keyPrefix = "revoked:"

// RevocationLedger implements store.RevocationLedger using Redis.
type RevocationLedger struct {
	client *redis.Client
}

// NewRevocationLedger creates a new Redis-backed revocation ledger.
func NewRevocationLedger(client *redis.Client) *RevocationLedger {
	return &RevocationLedger{client: client}
}

// Revoke records the token hash until expiresAt. Revoking an already-expired
// token is a no-op: Redis would reject a non-positive TTL, and the entry
// would be dead on arrival anyway.
func (l *RevocationLedger) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := l.client.Set(ctx, keyPrefix+tokenHash, "1", ttl).Err(); err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("redis set revocation entry: %w", err))
	}

	return nil
}

// IsRevoked reports whether a live entry exists for the token hash. Expiry
// is enforced by Redis itself, so the now parameter is unused here; it is
// part of the interface for stores without native TTL support.
func (l *RevocationLedger) IsRevoked(ctx context.Context, tokenHash string, _ time.Time) (bool, error) {
	n, err := l.client.Exists(ctx, keyPrefix+tokenHash).Result()
	if err != nil {
		return false, apperrors.StoreUnavailable(fmt.Errorf("redis check revocation entry: %w", err))
	}

	return n > 0, nil
}
