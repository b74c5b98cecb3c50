package middleware

import (
	"context"
	"net/http"
)

// Header pair presented on sensitive mutating calls.
const (
	CSRFTokenHeader = "X-CSRF-Token"
	SessionIDHeader = "X-Session-ID"
)

// CSRFValidator validates a token against the caller's declared
// session.
type CSRFValidator interface {
	Validate(ctx context.Context, token, sessionID string) bool
}

// CSRFProtect enforces the CSRF header pair on mutating methods of
// routes whose policy requires it.
func CSRFProtect(csrf CSRFValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required := false
			if p := GetPolicy(r.Context()); p != nil {
				required = p.Rules.CSRFRequired
			}
			if !required || !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(CSRFTokenHeader)
			sessionID := r.Header.Get(SessionIDHeader)
			if !csrf.Validate(r.Context(), token, sessionID) {
				writeError(w, http.StatusForbidden, "CSRF_INVALID", "missing or invalid CSRF token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
