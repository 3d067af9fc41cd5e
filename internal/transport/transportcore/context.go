package transportcore

import (
	"context"

	"github.com/jamesprial/mcp-oauth-2.1/internal/authjwt"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsContextKey is the context key for JWT claims, set only when the
	// request authenticated via the JWT strategy rather than an API key.
	ClaimsContextKey contextKey = "jwt_claims"

	// RequestIDContextKey is the context key for the per-request trace ID
	// assigned by the logging middleware.
	RequestIDContextKey contextKey = "request_id"
)

// ClaimsFromContext extracts JWT claims from the request context.
// Returns nil and false if the claims are not present, which is the normal
// case when the request authenticated via API key instead.
func ClaimsFromContext(ctx context.Context) (*authjwt.TokenClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(ClaimsContextKey).(*authjwt.TokenClaims)
	return claims, ok
}

// ContextWithClaims adds JWT claims to the request context.
func ContextWithClaims(ctx context.Context, claims *authjwt.TokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// RequestIDFromContext extracts the per-request trace ID, if one was assigned.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(RequestIDContextKey).(string)
	return id, ok
}

// ContextWithRequestID adds a trace ID to the request context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, RequestIDContextKey, id)
}
