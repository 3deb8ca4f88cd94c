package errors

import "errors"

// Common error types for the storefront auth client
var (
	// Remote API errors
	ErrNetwork        = errors.New("network error")
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrTimeout        = errors.New("request timed out")

	// Token errors
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")

	// Session errors
	ErrNoSession = errors.New("no session")

	// General errors
	ErrNotFound = errors.New("not found")
)
