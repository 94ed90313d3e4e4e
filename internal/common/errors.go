// Package common defines shared constants and sentinel errors used across
// crowdops packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Backend lookup errors.
	ErrorNotFound = errors.New("not found")

	// Session-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrNoSession      = errors.New("no valid session")
	ErrSessionExpired = errors.New("session expired")

	// Token parsing errors.
	ErrInvalidToken = errors.New("invalid token")
)
