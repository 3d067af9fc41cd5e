// Package transport provides the HTTP transport layer for the tool-execution
// server.
//
// # Architecture
//
// The transport package wires an HTTP router and middleware stack to the
// JSON-RPC-over-HTTP handler, which dispatches into internal/router for MCP
// method handling.
//
// Package structure:
//
//	internal/transport/
//	├── transport.go              # Public interfaces
//	├── errors.go                 # Transport domain errors
//	├── context.go                # Context keys and helpers
//	├── wire.go                   # Factory functions
//	├── internal/
//	│   ├── http/
//	│   │   ├── server.go         # HTTP server with graceful shutdown
//	│   │   ├── router.go         # HTTP routing
//	│   │   └── response.go       # Plain JSON error responder
//	│   └── handlers/
//	│       ├── mcp.go            # POST /mcp — JSON-RPC over HTTP
//	│       └── health.go         # GET /health
//
// The authentication, rate-limiting, logging, recovery, and metrics
// middleware live in the top-level internal/middleware package, not here —
// this package only composes them.
//
// # Middleware Chain
//
// The middleware chain is applied in this order:
//
//  1. Recovery - catches panics and returns 500 errors
//  2. Logging - assigns a trace ID and logs request details
//  3. Metrics - increments request counters
//  4. Authentication - validates the bearer credential (POST /mcp only, when auth is enabled)
//  5. Rate limiting - enforces a per-client token bucket (POST /mcp only)
//
// # Error Handling
//
// Errors outside the JSON-RPC envelope — auth failures, rate-limit
// rejections, malformed requests, panics — are returned as plain JSON
// bodies: {"error": "...", "message": "..."}.
//
// # Usage Example
//
//	cfg := &transport.Config{
//		ServerConfig: serverConfig,
//		Router:       mcpRouter,
//		JWTValidator: jwtValidator, // optional
//	}
//
//	server, _, err := transport.NewTransportServices(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := server.Start(); err != nil {
//		log.Fatal(err)
//	}
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	if err := server.Shutdown(ctx); err != nil {
//		log.Printf("shutdown error: %v", err)
//	}
//
// # Endpoints
//
// Unauthenticated endpoints:
//   - GET /health - health check
//   - GET /metrics - observability snapshot
//
// Endpoint requiring auth (when enabled) and subject to rate limiting:
//   - POST /mcp - MCP protocol (JSON-RPC 2.0)
//
// # Context Values
//
// When a request authenticates via the optional JWT strategy, the
// validated claims are stored in the request context:
//
//	claims, ok := transport.ClaimsFromContext(r.Context())
//	if !ok {
//		// authenticated via API key, or auth disabled
//	}
package transport
