// Package lockout implements the brute-force lockout state machine.
//
// The lock is advisory and lazy: no background sweep unlocks accounts.
// Every access check re-evaluates wall-clock time against the stored
// deadline, and stale state is repaired on the next recorded attempt.
package lockout

import (
	"time"

	"github.com/utafrali/authcore/domain"
)

// Check evaluates the state at the given time. It returns the unlock time and
// true while the lock is active; an expired lock is treated as allowed
// without mutating anything.
func Check(s domain.LockoutState, now time.Time) (until time.Time, locked bool) {
	if s.LockedAt(now) {
		return *s.LockedUntil, true
	}
	return time.Time{}, false
}

// Fail returns the state after a failed attempt at the given time. The
// counter increments, and when it reaches the threshold the lock deadline is
// set to now + lockDuration. A failure recorded after an expired lock
// restarts the counter at one and drops the stale deadline.
func Fail(s domain.LockoutState, now time.Time, threshold int, lockDuration time.Duration) domain.LockoutState {
	next := s
	if s.LockedUntil != nil && !s.LockedAt(now) {
		next = domain.LockoutState{}
	}

	next.FailedAttempts++
	if threshold > 0 && next.FailedAttempts >= threshold {
		until := now.Add(lockDuration)
		next.LockedUntil = &until
	}

	return next
}

// Reset returns the cleared state recorded after a successful
// authentication.
func Reset() domain.LockoutState {
	return domain.LockoutState{}
}
