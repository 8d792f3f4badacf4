package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Standard sentinel errors for the authentication core.
//
// Credential and token failures are intentionally coarse: a missing account
// and a wrong password both surface as ErrInvalidCredentials, and a revoked
// token is indistinguishable from a malformed one. Store failures are a
// separate class so callers can retry instead of showing an auth error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidCredentials creates a 401 error for a failed login. The message never
// distinguishes an unknown email from a wrong password.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidCredentials,
	}
}

// InvalidToken creates a 401 error for a malformed, expired, or revoked token.
// The message never distinguishes the three cases.
func InvalidToken() *AppError {
	return &AppError{
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired token",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidToken,
	}
}

// StoreUnavailable creates a 503 error wrapping a transient store failure.
func StoreUnavailable(err error) *AppError {
	return &AppError{
		Code:    "STORE_UNAVAILABLE",
		Message: "authentication store is temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrStoreUnavailable, err),
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// AccountLockedError reports a temporarily locked account and carries the time
// at which the lock expires. It exposes the unlock time to the user but never
// the failed-attempt count, which is internal.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}

// AccountLocked creates an error for an account locked until the given time.
func AccountLocked(until time.Time) *AccountLockedError {
	return &AccountLockedError{Until: until}
}

// LockedUntil extracts the unlock time from an error chain containing an
// AccountLockedError. The second return is false if the chain has none.
func LockedUntil(err error) (time.Time, bool) {
	var locked *AccountLockedError
	if errors.As(err, &locked) {
		return locked.Until, true
	}
	return time.Time{}, false
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
