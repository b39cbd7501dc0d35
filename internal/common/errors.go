// Package common contains shared constants and sentinel errors used across
// client and server layers of PassVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrorValidation   = errors.New("validation error")

	// Session token errors (invalid, expired or malformed all collapse here).
	ErrInvalidToken = errors.New("invalid token")

	// Two-factor state machine errors.
	ErrTwoFactorAlreadyEnabled = errors.New("2FA is already enabled")
	ErrEnrollmentNotStarted    = errors.New("2FA not initiated")
	ErrInvalidCodeFormat       = errors.New("invalid code format, must be 6 digits")
	ErrInvalidTwoFactorCode    = errors.New("invalid code")

	// Client-side encryption errors.
	ErrKeyNotAvailable = errors.New("encryption key not available")
)
