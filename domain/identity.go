package domain

import (
	"strings"
	"time"
)

// Identity is the authentication view of an account. The core reads every
// field but mutates only the embedded LockoutState; profile data lives with
// the caller's own user model.
type Identity struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	Lockout      LockoutState `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Public returns the projection of the identity that is safe to hand back to
// a client after login. It never carries the password hash or lockout state.
func (i *Identity) Public() PublicIdentity {
	return PublicIdentity{
		ID:    i.ID,
		Email: i.Email,
		Role:  i.Role,
	}
}

// PublicIdentity is the client-visible projection of an Identity.
type PublicIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LockoutState tracks consecutive failed logins and an optional timed lock.
// A nil LockedUntil means no lock was ever set; a LockedUntil in the past is
// logically unlocked even before being cleared.
type LockoutState struct {
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

// LockedAt reports whether the state holds an active lock at the given time.
func (s LockoutState) LockedAt(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Role constants define the allowed identity roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRoles returns the set of valid identity roles.
func ValidRoles() []string {
	return []string{RoleUser, RoleAdmin}
}

// IsValidRole checks whether the given role string is a valid identity role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email for the case-insensitive
// lookups every store implementation must honor.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
