package lockout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/authcore/domain"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCheck_BelowThreshold_Allowed(t *testing.T) {
	for attempts := 0; attempts < 5; attempts++ {
		_, locked := Check(domain.LockoutState{FailedAttempts: attempts}, t0)
		assert.False(t, locked, "attempts=%d", attempts)
	}
}

func TestCheck_ActiveLock(t *testing.T) {
	until := t0.Add(30 * time.Minute)
	state := domain.LockoutState{FailedAttempts: 5, LockedUntil: &until}

	got, locked := Check(state, t0)
	require.True(t, locked)
	assert.Equal(t, until, got)
}

func TestCheck_ExpiredLock_AllowedWithoutMutation(t *testing.T) {
	until := t0.Add(30 * time.Minute)
	state := domain.LockoutState{FailedAttempts: 5, LockedUntil: &until}

	// 31 minutes later the lock is logically gone, no explicit unlock needed.
	_, locked := Check(state, t0.Add(31*time.Minute))
	assert.False(t, locked)

	// Check never mutates: the stale deadline is still stored.
	assert.NotNil(t, state.LockedUntil)
	assert.Equal(t, 5, state.FailedAttempts)
}

func TestCheck_LockExpiringExactlyNow_Allowed(t *testing.T) {
	until := t0
	state := domain.LockoutState{FailedAttempts: 5, LockedUntil: &until}

	_, locked := Check(state, t0)
	assert.False(t, locked)
}

func TestFail_IncrementsBelowThreshold(t *testing.T) {
	state := domain.LockoutState{}

	state = Fail(state, t0, 3, 30*time.Minute)
	assert.Equal(t, 1, state.FailedAttempts)
	assert.Nil(t, state.LockedUntil)

	state = Fail(state, t0.Add(time.Minute), 3, 30*time.Minute)
	assert.Equal(t, 2, state.FailedAttempts)
	assert.Nil(t, state.LockedUntil)
}

func TestFail_ThresholdSetsLockFromFailureTime(t *testing.T) {
	state := domain.LockoutState{}
	lockDuration := 30 * time.Minute

	// Failures at t=0, t=1m, t=2m with threshold 3.
	state = Fail(state, t0, 3, lockDuration)
	state = Fail(state, t0.Add(time.Minute), 3, lockDuration)
	t2 := t0.Add(2 * time.Minute)
	state = Fail(state, t2, 3, lockDuration)

	require.NotNil(t, state.LockedUntil)
	assert.Equal(t, t2.Add(lockDuration), *state.LockedUntil)
	assert.Equal(t, 3, state.FailedAttempts)
}

func TestFail_AfterExpiredLock_RestartsCounter(t *testing.T) {
	until := t0.Add(30 * time.Minute)
	state := domain.LockoutState{FailedAttempts: 3, LockedUntil: &until}

	// First failure after the lock lapsed starts a fresh window.
	state = Fail(state, until.Add(time.Minute), 3, 30*time.Minute)
	assert.Equal(t, 1, state.FailedAttempts)
	assert.Nil(t, state.LockedUntil)
}

func TestFail_ConfigurableThreshold(t *testing.T) {
	for _, threshold := range []int{3, 4, 5} {
		state := domain.LockoutState{}
		for i := 0; i < threshold-1; i++ {
			state = Fail(state, t0, threshold, time.Hour)
			assert.Nil(t, state.LockedUntil, "threshold=%d attempt=%d", threshold, i+1)
		}
		state = Fail(state, t0, threshold, time.Hour)
		assert.NotNil(t, state.LockedUntil, "threshold=%d", threshold)
	}
}

func TestFail_ZeroThreshold_NeverLocks(t *testing.T) {
	state := domain.LockoutState{}
	for i := 0; i < 100; i++ {
		state = Fail(state, t0, 0, time.Hour)
	}
	assert.Equal(t, 100, state.FailedAttempts)
	assert.Nil(t, state.LockedUntil)
}

func TestReset_ClearsEverything(t *testing.T) {
	got := Reset()
	assert.Equal(t, 0, got.FailedAttempts)
	assert.Nil(t, got.LockedUntil)
}

func TestFail_DoesNotMutateInput(t *testing.T) {
	state := domain.LockoutState{FailedAttempts: 1}
	_ = Fail(state, t0, 3, time.Hour)
	assert.Equal(t, 1, state.FailedAttempts)
}
