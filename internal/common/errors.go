// Package common defines shared constants and sentinel errors used across
// the server, the HTTP layer and the CLI client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (malformed or missing request fields).
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrNoCredentials = errors.New("no credentials supplied")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
)
