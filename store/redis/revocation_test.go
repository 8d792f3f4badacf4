package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/authcore/pkg/errors"
)

func setupTestRedis(t *testing.T) (*RevocationLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRevocationLedger(client), mr
}

func TestRevocationLedger_RevokeAndCheck(t *testing.T) {
	ledger, _ := setupTestRedis(t)
	ctx := context.Background()
	now := time.Now().UTC()

	revoked, err := ledger.IsRevoked(ctx, "hash-1", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, ledger.Revoke(ctx, "hash-1", now.Add(time.Hour)))

	revoked, err = ledger.IsRevoked(ctx, "hash-1", now)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Unrelated hashes stay unaffected.
	revoked, err = ledger.IsRevoked(ctx, "hash-2", now)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationLedger_Revoke_Idempotent(t *testing.T) {
	ledger, _ := setupTestRedis(t)
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(time.Hour)

	require.NoError(t, ledger.Revoke(ctx, "hash-1", expiresAt))
	require.NoError(t, ledger.Revoke(ctx, "hash-1", expiresAt))

	revoked, err := ledger.IsRevoked(ctx, "hash-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationLedger_Revoke_AlreadyExpiredToken(t *testing.T) {
	ledger, mr := setupTestRedis(t)
	ctx := context.Background()

	err := ledger.Revoke(ctx, "hash-old", time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)

	assert.False(t, mr.Exists(keyPrefix+"hash-old"))
}

func TestRevocationLedger_EntryExpires(t *testing.T) {
	ledger, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, ledger.Revoke(ctx, "hash-1", time.Now().UTC().Add(time.Minute)))

	// miniredis advances TTLs on demand rather than on the wall clock.
	mr.FastForward(2 * time.Minute)

	revoked, err := ledger.IsRevoked(ctx, "hash-1", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationLedger_StoreUnavailable(t *testing.T) {
	ledger, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Close()

	err := ledger.Revoke(ctx, "hash-1", time.Now().UTC().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))

	_, err = ledger.IsRevoked(ctx, "hash-1", time.Now().UTC())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}
