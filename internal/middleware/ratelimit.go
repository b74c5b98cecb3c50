package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/limiter"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/reliability"
)

// RateLimiter is the token-bucket port.
type RateLimiter interface {
	Allow(ctx context.Context, key string, rate float64, burst int) (bool, int, error)
}

// RateLimit applies the per-IP token bucket with the rate and burst
// from the route policy. Limiter infrastructure errors fail open: a
// Redis outage already degrades storage, it should not also take the
// whole API down.
func RateLimit(l RateLimiter, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rate := 1.0
			burst := 5
			if p := GetPolicy(r.Context()); p != nil {
				rate = p.Rules.RateLimit
				burst = p.Rules.Burst
			}

			key := "ratelimit:ip:" + ClientIP(r)
			allowed, remaining, err := l.Allow(r.Context(), key, rate, burst)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", burst))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

			if err != nil && !errors.Is(err, limiter.ErrRateLimitExceeded) {
				if reliability.ShouldAllow(reliability.FailOpen, err) {
					log.Warn("rate limiter unavailable, failing open", "error", err)
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusInternalServerError, "STORE_ERROR", "internal error")
				return
			}

			if !allowed {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
