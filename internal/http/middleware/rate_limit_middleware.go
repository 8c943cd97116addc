package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/yasuguerra/skyride-booking/internal/http/response"
)

// RateLimit applies the per-client sliding window to every request except
// health checks. Limiter outages fail open: a broken rate limiter must not
// take hold traffic down with it.
func RateLimit(limiter *RedisSlidingWindowLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/health" {
				next.ServeHTTP(w, r)
				return
			}
			decision, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !decision.Allowed {
				seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, slow down", map[string]any{
					"retry_after_seconds": seconds,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from X-Forwarded-For.
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
