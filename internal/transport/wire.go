package transport

import (
	"fmt"
	"log/slog"

	"github.com/jamesprial/mcp-oauth-2.1/internal/authjwt"
	"github.com/jamesprial/mcp-oauth-2.1/internal/config"
	"github.com/jamesprial/mcp-oauth-2.1/internal/middleware"
	"github.com/jamesprial/mcp-oauth-2.1/internal/router"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/internal/handlers"
	transporthttp "github.com/jamesprial/mcp-oauth-2.1/internal/transport/internal/http"
)

// NewServer creates a configured HTTP server bound to rt and the timeouts
// in cfg.
func NewServer(cfg *config.Config, rt Router) Server {
	return transporthttp.NewServer(cfg, rt)
}

// NewRouter creates a new HTTP router backed by http.ServeMux.
func NewRouter() Router {
	return transporthttp.NewRouter()
}

// NewErrorResponder creates an error responder writing plain JSON error
// bodies for requests rejected outside the JSON-RPC envelope.
func NewErrorResponder() ErrorResponder {
	return transporthttp.NewErrorResponder()
}

// Config holds the dependencies needed to wire the complete HTTP transport:
// router, middleware stack, and handlers.
type Config struct {
	// ServerConfig is the server configuration.
	ServerConfig *config.Config

	// Router dispatches decoded JSON-RPC requests to the MCP method handlers.
	Router router.Router

	// JWTValidator is optional: when non-nil, the auth middleware accepts a
	// JWT bearer token as an alternative to an API key.
	JWTValidator authjwt.TokenValidator

	// Metrics backs the GET /metrics observability snapshot. If nil, a new
	// instance is created.
	Metrics *middleware.Metrics

	// Logger is used by the logging and recovery middleware. If nil, the
	// default slog logger is used.
	Logger *slog.Logger
}

// NewTransportServices wires the router, middleware stack, and handlers
// into a complete HTTP transport: GET /health and GET /metrics are
// unauthenticated; POST /mcp requires a valid API key or JWT bearer token
// (when auth is enabled) and is always rate-limited.
func NewTransportServices(cfg *Config) (Server, Router, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ServerConfig == nil {
		return nil, nil, fmt.Errorf("server config cannot be nil")
	}
	if cfg.Router == nil {
		return nil, nil, fmt.Errorf("router cannot be nil")
	}

	sc := cfg.ServerConfig

	responder := NewErrorResponder()

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}

	recoveryMW := middleware.NewRecoveryMiddleware(responder, cfg.Logger)
	loggingMW := middleware.NewLoggingMiddleware(cfg.Logger)
	metricsMW := metrics.Middleware()
	rateLimitMW := middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
		PerSecond: sc.RateLimitPerSecond,
		Burst:     sc.RateLimitBurst,
	}, responder)

	mcpHandler := handlers.NewMCPHandler(cfg.Router, responder)
	healthHandler := handlers.NewHealthHandler(sc.ServerName, sc.ServerVersion)
	metricsHandler := metrics.Handler()

	httpRouter := NewRouter()
	httpRouter.Use(recoveryMW, loggingMW, metricsMW)

	httpRouter.Handle("GET /health", healthHandler)
	httpRouter.Handle("GET /metrics", metricsHandler)

	mcpChain := rateLimitMW(mcpHandler)
	if sc.AuthEnabled {
		authMW := middleware.NewAuthMiddleware(middleware.AuthConfig{
			Header:       sc.AuthHeader,
			APIKeyHashes: sc.APIKeyHashes,
			JWTValidator: cfg.JWTValidator,
		}, responder)
		mcpChain = authMW(mcpChain)
	}
	httpRouter.Handle("POST /mcp", mcpChain)

	server := NewServer(sc, httpRouter)

	return server, httpRouter, nil
}
