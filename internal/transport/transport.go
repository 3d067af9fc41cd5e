// Package transport provides the HTTP transport layer for the tool-execution
// server: routing, the middleware stack (auth, rate limiting, logging,
// recovery, metrics), and the POST /mcp, GET /health, GET /metrics handlers.
package transport

import (
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// Re-export types from transportcore for backward compatibility.
// This allows external packages to import transport without creating cycles.

// Middleware is a function that wraps an http.Handler.
// It can modify the request, response, or perform additional logic
// before or after calling the next handler in the chain.
type Middleware = transportcore.Middleware

// Server manages the HTTP server lifecycle.
// Implementations must support graceful shutdown and provide
// access to the bound address after startup.
type Server = transportcore.Server

// Router handles HTTP request routing and middleware composition.
// It extends http.Handler with pattern-based routing and middleware support.
type Router = transportcore.Router

// ErrorResponder writes JSON error bodies for the failure modes the HTTP
// transport and its middleware stack can produce outside the JSON-RPC
// envelope itself.
type ErrorResponder = transportcore.ErrorResponder
