// Package authjwt provides the optional JWT bearer-token verification
// strategy for the HTTP authentication middleware, alongside the
// spec-mandated SHA-256 API-key strategy. It validates signature,
// expiration, and audience; it does not perform scope authorization.
package authjwt

import (
	"context"
	"time"
)

// TokenValidator validates JWT access tokens.
// Implementations must verify token signatures, expiration, and audience.
type TokenValidator interface {
	// ValidateToken validates an access token and returns the parsed claims.
	// It verifies the token signature using JWKS from the issuing authorization
	// server, checks expiration with clock skew tolerance, and validates the
	// audience matches this server.
	//
	// Returns ErrUnauthorized from internal/errors if the token is invalid.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenClaims represents validated JWT claims from an access token.
// All fields are populated from the token after successful validation.
type TokenClaims struct {
	// Subject is the subject (sub) claim - typically the caller identifier.
	Subject string

	// Issuer is the issuer (iss) claim - the authorization server that issued the token.
	Issuer string

	// Audience is the audience (aud) claim - the intended recipient(s) of the token.
	// For this server, must contain this server's configured audience value.
	Audience []string

	// Scopes is the list of scope values carried by the token, if any.
	// Parsed from the "scope" claim (space-separated string). Not used for
	// authorization decisions by this server.
	Scopes []string

	// ExpiresAt is the expiration time (exp) claim.
	ExpiresAt time.Time

	// IssuedAt is the issued at (iat) claim.
	IssuedAt time.Time

	// JTI is the JWT ID (jti) claim - a unique identifier for this token.
	JTI string
}

// JWKSClient fetches and caches JSON Web Key Sets (JWKS) from authorization servers.
// The client maintains an in-memory cache with TTL to minimize network requests
// while ensuring key rotation is respected.
type JWKSClient interface {
	// GetKey retrieves a public key for the given key ID (kid).
	// It first checks the cache, and if not found or expired, fetches
	// the JWKS from the authorization server.
	//
	// Returns the public key (typically *rsa.PublicKey or *ecdsa.PublicKey)
	// suitable for JWT signature verification.
	GetKey(ctx context.Context, keyID string) (any, error)

	// RefreshKeys forces a refresh of the JWKS cache from all configured
	// authorization servers. This is useful after receiving an invalid-token
	// error that might be due to key rotation.
	RefreshKeys(ctx context.Context) error
}
