package middleware

import (
	"context"
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/model"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session"

// SessionValidator validates an opaque token against the client
// fingerprint.
type SessionValidator interface {
	Validate(ctx context.Context, token, ip, userAgent string) (*model.Session, bool)
}

// SessionAuth resolves the session cookie on every request and
// attaches the session to the context. Requests without a valid
// session are rejected only when the route policy requires auth;
// everything else passes through anonymous.
func SessionAuth(sessions SessionValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authRequired := false
			if p := GetPolicy(r.Context()); p != nil {
				authRequired = p.Rules.AuthRequired
			}

			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				if authRequired {
					writeError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "not logged in")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := sessions.Validate(r.Context(), cookie.Value, ClientIP(r), r.UserAgent())
			if !ok {
				if authRequired {
					writeError(w, http.StatusUnauthorized, "AUTH_EXPIRED", "session expired or invalid")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, sess)
			ctx = context.WithValue(ctx, SessionTokenContextKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
