package middleware

import (
	"context"
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/policy"
)

// PolicyEnforcer evaluates the request against the route policy table
// and attaches the result to the context for the downstream
// auth/CSRF/lock/rate-limit middlewares.
func PolicyEnforcer(engine *policy.Engine) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := engine.Evaluate(r)
			ctx := context.WithValue(r.Context(), PolicyContextKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
