package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// NewRecoveryMiddleware creates middleware that recovers from panics in
// downstream handlers, logging the panic with a stack trace and returning a
// 500 to the caller instead of dropping the connection. This is what keeps a
// single malformed request from killing the whole HTTP listener; the stdio
// transport applies the equivalent per-request recovery around its own
// dispatch loop. If logger is nil, it uses the default slog logger.
func NewRecoveryMiddleware(responder transportcore.ErrorResponder, logger *slog.Logger) transportcore.Middleware {
	if responder == nil {
		panic("responder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					stack := debug.Stack()

					requestID, _ := transportcore.RequestIDFromContext(r.Context())
					logger.Error("panic recovered",
						"panic", recovered,
						"request_id", requestID,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(stack),
					)

					responder.InternalError(w, fmt.Errorf("panic: %v", recovered))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
