// Package token mints and verifies the signed access/refresh token pair.
//
// Tokens are stateless to verify: signature and expiry checks need no store
// lookup. Only revocation, which belongs to the ledger, does.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/utafrali/authcore/domain"
)

// Kind tags a token with its purpose. An access token must never be accepted
// where a refresh token is required, and vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const issuerName = "authcore"

// ErrWrongKind is returned when a structurally valid token carries the wrong
// purpose claim.
var ErrWrongKind = errors.New("token kind mismatch")

// Claims are the signed contents of both token kinds. RegisteredClaims
// carries subject, jti, issued-at, and expiry.
type Claims struct {
	Role string `json:"role,omitempty"`
	Kind Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// SubjectID returns the subject identity the token was issued to.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// Issuer mints and verifies HS256-signed token pairs.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an issuer with the given signing secret and TTLs.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue mints an access/refresh pair for the subject at the given time. Each
// token is independently signed and carries its own expiry and jti.
func (i *Issuer) Issue(subjectID, role string, now time.Time) (domain.TokenPair, error) {
	access, err := i.sign(subjectID, role, KindAccess, now, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := i.sign(subjectID, role, KindRefresh, now, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (i *Issuer) sign(subjectID, role string, kind Kind, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuerName,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a token at the given time, checking signature
// integrity, expiry, and that the token's purpose matches the expected kind.
// Expiry is inclusive-exclusive: a token is dead the instant now equals its
// expiry. Clock skew is not compensated.
func (i *Issuer) Verify(tokenString string, expected Kind, now time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("token expired")
	}

	if claims.Kind != expected {
		return nil, fmt.Errorf("verify token: %w", ErrWrongKind)
	}

	return claims, nil
}

// Hash returns the SHA-256 hex digest of a raw token string. It is the stable
// identifier the revocation ledger is keyed by, so raw tokens never land in a
// store.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
