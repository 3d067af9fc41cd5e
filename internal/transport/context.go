package transport

import (
	"context"

	"github.com/jamesprial/mcp-oauth-2.1/internal/authjwt"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// Re-exported from transportcore so callers outside the transport tree
// never need to import transportcore directly.

// ClaimsContextKey is the context key for JWT claims.
const ClaimsContextKey = transportcore.ClaimsContextKey

// ClaimsFromContext extracts JWT claims from the request context. Returns
// false when the request authenticated via API key instead, which carries
// no claims.
func ClaimsFromContext(ctx context.Context) (*authjwt.TokenClaims, bool) {
	return transportcore.ClaimsFromContext(ctx)
}

// ContextWithClaims adds JWT claims to the request context.
func ContextWithClaims(ctx context.Context, claims *authjwt.TokenClaims) context.Context {
	return transportcore.ContextWithClaims(ctx, claims)
}
