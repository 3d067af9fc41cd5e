// Package jwterr provides constructors for JWT bearer-token validation
// errors. It is kept separate from internal/authjwt to avoid an import
// cycle between the validator and its adapters.
package jwterr

import (
	"fmt"

	ierrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
)

const domainJWT = "authjwt"

// NewInvalidTokenError creates a DomainError for a malformed or unparseable token.
func NewInvalidTokenError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, err).
		WithContext("jwt_error", "invalid_token")
}

// NewInvalidAudienceError creates a DomainError for a token whose audience
// claim does not match the configured value.
func NewInvalidAudienceError(op string, expected string, actual []string) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, fmt.Errorf("invalid audience")).
		WithContext("jwt_error", "invalid_token").
		WithContext("expected_audience", expected).
		WithContext("actual_audience", actual)
}

// NewTokenExpiredError creates a DomainError for an expired token.
func NewTokenExpiredError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, err).
		WithContext("jwt_error", "invalid_token").
		WithContext("reason", "token_expired")
}

// NewInvalidSignatureError creates a DomainError for a signature verification failure.
func NewInvalidSignatureError(op string, err error) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, err).
		WithContext("jwt_error", "invalid_token").
		WithContext("reason", "invalid_signature")
}

// NewUnsupportedAlgorithmError creates a DomainError for a signing algorithm
// outside the validator's allowlist.
func NewUnsupportedAlgorithmError(op string, algorithm string) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, fmt.Errorf("unsupported algorithm")).
		WithContext("jwt_error", "invalid_token").
		WithContext("algorithm", algorithm)
}

// NewMissingClaimError creates a DomainError for a missing required claim.
func NewMissingClaimError(op string, claim string) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, fmt.Errorf("missing claim: %s", claim)).
		WithContext("jwt_error", "invalid_token").
		WithContext("missing_claim", claim)
}

// NewKeyNotFoundError creates a DomainError for a key ID absent from the JWKS.
func NewKeyNotFoundError(op string, keyID string) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrUnauthorized, fmt.Errorf("key not found")).
		WithContext("jwt_error", "invalid_token").
		WithContext("key_id", keyID)
}

// NewJWKSFetchError creates a DomainError for a failed JWKS retrieval.
func NewJWKSFetchError(op string, serverURL string, err error) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrInternal, fmt.Errorf("jwks fetch failed: %v", err)).
		WithContext("authorization_server", serverURL)
}

// NewInvalidMetadataError creates a DomainError for authorization server
// metadata that is malformed or missing the jwks_uri field needed to
// locate the key set.
func NewInvalidMetadataError(op string, serverURL string, err error) *ierrors.DomainError {
	return ierrors.New(domainJWT, op, ierrors.ErrInternal, fmt.Errorf("invalid metadata: %v", err)).
		WithContext("authorization_server", serverURL)
}
