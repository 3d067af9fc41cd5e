// Package middleware provides the HTTP middleware stack for the tool-execution
// server: authentication, rate limiting, request logging, metrics, and panic
// recovery.
package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/jamesprial/mcp-oauth-2.1/internal/authjwt"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

const bearerScheme = "Bearer"

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	// Header is the HTTP header carrying the bearer credential.
	Header string

	// APIKeyHashes is the set of accepted credentials, as hex-encoded
	// SHA-256 hashes. This is the primary, always-available strategy.
	APIKeyHashes []string

	// JWTValidator is consulted as a fallback strategy when non-nil: a
	// credential that doesn't match any API key hash is tried as a JWT
	// bearer token instead. Leave nil to disable JWT auth entirely.
	JWTValidator authjwt.TokenValidator
}

type authMiddleware struct {
	header       string
	apiKeyHashes map[string]struct{}
	jwtValidator authjwt.TokenValidator
	responder    transportcore.ErrorResponder
}

// NewAuthMiddleware creates authentication middleware implementing the
// SHA-256 API-key strategy, with an optional JWT bearer-token fallback.
func NewAuthMiddleware(cfg AuthConfig, responder transportcore.ErrorResponder) transportcore.Middleware {
	if responder == nil {
		panic("responder cannot be nil")
	}

	header := cfg.Header
	if header == "" {
		header = "Authorization"
	}

	hashes := make(map[string]struct{}, len(cfg.APIKeyHashes))
	for _, h := range cfg.APIKeyHashes {
		hashes[strings.ToLower(h)] = struct{}{}
	}

	m := &authMiddleware{
		header:       header,
		apiKeyHashes: hashes,
		jwtValidator: cfg.JWTValidator,
		responder:    responder,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearerToken(r, m.header)
			if err != nil {
				m.responder.Unauthorized(w, err)
				return
			}

			if m.matchesAPIKey(token) {
				next.ServeHTTP(w, r)
				return
			}

			if m.jwtValidator != nil {
				claims, err := m.jwtValidator.ValidateToken(r.Context(), token)
				if err == nil {
					ctx := transportcore.ContextWithClaims(r.Context(), claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			m.responder.Unauthorized(w, transportcore.ErrInvalidToken)
		})
	}
}

// matchesAPIKey reports whether token's SHA-256 hash matches one of the
// configured hashes, using a constant-time comparison.
func (m *authMiddleware) matchesAPIKey(token string) bool {
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])
	for configured := range m.apiKeyHashes {
		if subtle.ConstantTimeCompare([]byte(hash), []byte(configured)) == 1 {
			return true
		}
	}
	return false
}

// extractBearerToken extracts the Bearer credential from the configured
// header. Returns an error if the header is missing or malformed.
func extractBearerToken(r *http.Request, header string) (string, error) {
	value := r.Header.Get(header)
	if value == "" {
		return "", transportcore.ErrMissingToken
	}

	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", transportcore.ErrInvalidToken
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", transportcore.ErrMissingToken
	}

	return token, nil
}
