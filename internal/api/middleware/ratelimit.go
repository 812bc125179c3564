package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/rewear-app/rewear-api/internal/api/shared"
	"github.com/rewear-app/rewear-api/internal/ratelimit"
)

// RateLimitMiddleware throttles requests per client IP using a keyed
// token-bucket limiter. Used on the credential endpoints to slow down
// brute-force attempts.
type RateLimitMiddleware struct {
	limiter *ratelimit.KeyedRateLimiter
}

// NewRateLimitMiddleware creates a RateLimitMiddleware around the given
// limiter.
func NewRateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit rejects requests exceeding the per-IP rate with 429.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(clientIP(r)) {
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the client address, honoring the first hop of
// X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
