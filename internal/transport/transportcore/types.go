// Package transportcore provides core types, interfaces, and primitives for the transport layer.
// This package exists to break import cycles between the transport package and its internal subpackages.
package transportcore

import (
	"context"
	"net/http"
)

// Middleware is a function that wraps an http.Handler.
// It can modify the request, response, or perform additional logic
// before or after calling the next handler in the chain.
type Middleware func(http.Handler) http.Handler

// Server manages the HTTP server lifecycle.
// Implementations must support graceful shutdown and provide
// access to the bound address after startup.
type Server interface {
	// Start begins serving HTTP requests on the configured address.
	// This is a blocking call that returns when the server stops
	// or encounters an error during startup.
	Start() error

	// Shutdown gracefully shuts down the server without interrupting
	// active connections. It waits for active connections to close
	// or the context to be cancelled/expired.
	Shutdown(ctx context.Context) error

	// Addr returns the address the server is listening on.
	// This is useful when the server is configured to bind to a random port.
	Addr() string
}

// Router handles HTTP request routing and middleware composition.
// It extends http.Handler with pattern-based routing and middleware support.
type Router interface {
	http.Handler

	// Handle registers a handler for the given pattern.
	// The pattern syntax follows http.ServeMux conventions.
	Handle(pattern string, handler http.Handler)

	// HandleFunc registers a handler function for the given pattern.
	HandleFunc(pattern string, handler http.HandlerFunc)

	// Use applies middleware to all subsequent route registrations.
	// Middleware is applied in the order registered.
	Use(middlewares ...Middleware)
}

// ErrorResponder writes JSON error bodies for the failure modes the HTTP
// transport and its middleware stack can produce outside the JSON-RPC
// envelope itself (a rejected request never reaches the protocol layer).
type ErrorResponder interface {
	// Unauthorized sends a 401 response when the request carries no
	// acceptable credential.
	Unauthorized(w http.ResponseWriter, err error)

	// TooManyRequests sends a 429 response when the caller's rate-limit
	// bucket is exhausted.
	TooManyRequests(w http.ResponseWriter, err error)

	// InternalError sends a 500 response, used by the recovery middleware.
	InternalError(w http.ResponseWriter, err error)

	// BadRequest sends a 400 response for a malformed request outside the
	// JSON-RPC envelope (e.g. a POST /mcp body that cannot be read).
	BadRequest(w http.ResponseWriter, err error)
}
