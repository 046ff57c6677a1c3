// Package common defines shared constants and sentinel errors used across
// the server, the CLI and the repositories. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Registration errors.
	ErrMissingFields  = errors.New("missing required fields")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrInvalidRole    = errors.New("invalid role")

	// Credential check. Unknown e-mail and wrong password share this value.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Password reset token lifecycle.
	ErrNoTokenOnFile = errors.New("no reset token found or token expired")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenMismatch = errors.New("invalid token")

	// Session token errors (invalid, malformed or expired JWT).
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")

	// Database or mail transport failures.
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrMailDelivery    = errors.New("error sending email")

	// Collection browser.
	ErrUnknownCollection = errors.New("collection not found")
)
