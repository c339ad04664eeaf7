// Package common defines shared constants and sentinel errors used across
// the admin backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors. Every way a token can fail verification collapses here.
	ErrInvalidSession = errors.New("invalid session")

	// Storage errors.
	ErrStorageNotConfigured = errors.New("storage not configured")
)
