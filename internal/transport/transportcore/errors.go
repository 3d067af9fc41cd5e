package transportcore

import (
	"errors"
)

// Sentinel errors for transport operations.
var (
	// ErrMissingToken indicates the auth header is missing or empty.
	ErrMissingToken = errors.New("missing authorization token")

	// ErrInvalidToken indicates the credential could not be verified as
	// either an API key or a JWT.
	ErrInvalidToken = errors.New("invalid authorization token")

	// ErrRateLimited indicates the caller's token bucket is exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrServerClosed indicates the server has been closed and cannot accept requests.
	ErrServerClosed = errors.New("server closed")
)
