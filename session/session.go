// Package session orchestrates the credential, lockout, token, and
// revocation layers behind three operations: Login, Refresh, and Logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/authcore/domain"
	"github.com/utafrali/authcore/lockout"
	apperrors "github.com/utafrali/authcore/pkg/errors"
	"github.com/utafrali/authcore/store"
	"github.com/utafrali/authcore/token"
)

// Config holds the lockout policy applied on failed logins.
type Config struct {
	// LockThreshold is the number of consecutive failures that locks an
	// account. Zero or negative disables locking.
	LockThreshold int
	// LockDuration is how long a lock stays in force once triggered.
	LockDuration time.Duration
}

// Service implements the session lifecycle for identities.
type Service struct {
	creds  store.CredentialStore
	ledger store.RevocationLedger
	issuer *token.Issuer
	cfg    Config
	logger *slog.Logger

	now func() time.Time
}

// NewService creates a new session service.
func NewService(
	creds store.CredentialStore,
	ledger store.RevocationLedger,
	issuer *token.Issuer,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		creds:  creds,
		ledger: ledger,
		issuer: issuer,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates an identity by email and password. An unknown email and
// a wrong password surface identically so callers cannot probe which emails
// have accounts. A wrong password counts toward lockout; a correct one on an
// unlocked account clears the counter and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.PublicIdentity, *domain.TokenPair, error) {
	if email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	now := s.now()
	email = domain.NormalizeEmail(email)

	identity, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			loginsTotal.WithLabelValues(outcomeInvalidCredentials).Inc()
			return nil, nil, apperrors.InvalidCredentials()
		}
		loginsTotal.WithLabelValues(outcomeError).Inc()
		return nil, nil, fmt.Errorf("load identity: %w", err)
	}

	if until, locked := lockout.Check(identity.Lockout, now); locked {
		loginsTotal.WithLabelValues(outcomeLocked).Inc()
		s.logger.WarnContext(ctx, "login rejected for locked account",
			slog.String("subject_id", identity.ID),
			slog.Time("locked_until", until),
		)
		return nil, nil, apperrors.AccountLocked(until)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, nil, s.recordFailedLogin(ctx, identity.ID, now)
	}

	if err := s.creds.RecordSuccess(ctx, identity.ID); err != nil {
		// The user proved who they are; a counter reset failing is an
		// operational problem, not an authentication one.
		s.logger.ErrorContext(ctx, "failed to reset lockout state",
			slog.String("subject_id", identity.ID),
			slog.String("error", err.Error()),
		)
	}

	pair, err := s.issuer.Issue(identity.ID, identity.Role, now)
	if err != nil {
		loginsTotal.WithLabelValues(outcomeError).Inc()
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	loginsTotal.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("subject_id", identity.ID),
	)

	pub := identity.Public()
	return &pub, &pair, nil
}

// recordFailedLogin registers a wrong-password attempt and maps the resulting
// state to the caller-facing error. Crossing the threshold reports the lock
// deadline; anything below it stays indistinguishable from an unknown email.
func (s *Service) recordFailedLogin(ctx context.Context, id string, now time.Time) error {
	state, err := s.creds.RecordFailure(ctx, id, s.cfg.LockThreshold, s.cfg.LockDuration, now)
	if err != nil {
		// A dropped increment would silently weaken brute-force protection,
		// so the whole attempt fails as retryable instead of as a bad password.
		s.logger.ErrorContext(ctx, "failed to record login failure",
			slog.String("subject_id", id),
			slog.String("error", err.Error()),
		)
		loginsTotal.WithLabelValues(outcomeError).Inc()
		return fmt.Errorf("record failed attempt: %w", err)
	}

	if until, locked := lockout.Check(state, now); locked {
		loginsTotal.WithLabelValues(outcomeLocked).Inc()
		lockoutsTotal.Inc()
		s.logger.WarnContext(ctx, "account locked after repeated failures",
			slog.String("subject_id", id),
			slog.Int("failed_attempts", state.FailedAttempts),
			slog.Time("locked_until", until),
		)
		return apperrors.AccountLocked(until)
	}

	loginsTotal.WithLabelValues(outcomeInvalidCredentials).Inc()
	return apperrors.InvalidCredentials()
}

// Refresh rotates a refresh token: the presented token is revoked and a fresh
// pair is issued in its place, so each refresh token authenticates exactly
// one rotation. A replayed token fails verification against the ledger.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	now := s.now()

	claims, err := s.issuer.Verify(refreshToken, token.KindRefresh, now)
	if err != nil {
		refreshesTotal.WithLabelValues(outcomeInvalidToken).Inc()
		return nil, apperrors.InvalidToken()
	}

	tokenHash := token.Hash(refreshToken)

	revoked, err := s.ledger.IsRevoked(ctx, tokenHash, now)
	if err != nil {
		refreshesTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		refreshesTotal.WithLabelValues(outcomeReplayed).Inc()
		s.logger.WarnContext(ctx, "revoked refresh token presented",
			slog.String("subject_id", claims.SubjectID()),
		)
		return nil, apperrors.InvalidToken()
	}

	// Re-read the identity so a rotation picks up the current role and a
	// deleted account cannot keep refreshing forever.
	identity, err := s.creds.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			refreshesTotal.WithLabelValues(outcomeInvalidToken).Inc()
			return nil, apperrors.InvalidToken()
		}
		refreshesTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("load identity: %w", err)
	}

	// Retire the old token before issuing. If this write fails the rotation
	// aborts; handing out a new pair while the old token stays live would
	// break the single-use guarantee.
	if err := s.ledger.Revoke(ctx, tokenHash, claims.ExpiresAt.Time); err != nil {
		refreshesTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("retire refresh token: %w", err)
	}

	pair, err := s.issuer.Issue(identity.ID, identity.Role, now)
	if err != nil {
		refreshesTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	refreshesTotal.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "tokens rotated",
		slog.String("subject_id", identity.ID),
	)

	return &pair, nil
}

// Logout revokes a refresh token. The operation is idempotent: logging out an
// already-revoked, expired, or malformed token succeeds without effect, so a
// client can always retry.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	logoutsTotal.Inc()

	claims, err := s.issuer.Verify(refreshToken, token.KindRefresh, s.now())
	if err != nil {
		// Nothing to revoke: an unverifiable token can never authenticate.
		return nil
	}

	// Finish the ledger write even if the caller has already hung up.
	ctx = context.WithoutCancel(ctx)

	if err := s.ledger.Revoke(ctx, token.Hash(refreshToken), claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "session logged out",
		slog.String("subject_id", claims.SubjectID()),
	)

	return nil
}
