// Package common defines shared constants and sentinel errors used across
// client and server layers of taskboard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")

	// Auth errors. ErrInvalidCredentials deliberately covers both unknown
	// email and wrong password.
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Export is only available when object storage is configured.
	ErrExportDisabled = errors.New("export disabled")
)

// ValidationError carries a user-safe message describing rejected input.
// It matches ErrValidation via errors.Is.
type ValidationError struct {
	Message string
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
