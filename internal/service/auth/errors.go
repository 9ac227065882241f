package auth

import "errors"

// Common authentication errors
var (
	// ErrMissingToken indicates no Authorization header value was supplied.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidToken indicates the header is malformed or no user owns the token.
	ErrInvalidToken = errors.New("invalid authentication token")
)
