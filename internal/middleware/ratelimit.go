package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jamesprial/mcp-oauth-2.1/internal/transport/transportcore"
)

// RateLimitConfig configures the rate-limiting middleware.
type RateLimitConfig struct {
	// PerSecond is the steady-state request rate allowed per client.
	PerSecond float64

	// Burst is the maximum burst size allowed per client.
	Burst int
}

type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

func (c *clientLimiter) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[key]
	if !ok {
		l = rate.NewLimiter(c.perSec, c.burst)
		c.limiters[key] = l
	}
	return l
}

// NewRateLimitMiddleware creates middleware that limits request throughput
// per client, identified by the remote address with the port stripped. Each
// distinct client gets its own token bucket; buckets are never evicted, so
// this middleware assumes a bounded or trusted set of clients.
func NewRateLimitMiddleware(cfg RateLimitConfig, responder transportcore.ErrorResponder) transportcore.Middleware {
	if responder == nil {
		panic("responder cannot be nil")
	}

	cl := &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		perSec:   rate.Limit(cfg.PerSecond),
		burst:    cfg.Burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !cl.get(key).Allow() {
				responder.TooManyRequests(w, transportcore.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey derives the bucket key for a request: the remote IP with the
// port stripped, falling back to the raw RemoteAddr if it can't be split.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
