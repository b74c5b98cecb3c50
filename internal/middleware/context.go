package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/model"
	"github.com/raakeshmj/vaultbox/internal/policy"
)

type contextKey string

const (
	PolicyContextKey       contextKey = "policy"
	SessionContextKey      contextKey = "session"
	SessionTokenContextKey contextKey = "session_token"
)

// GetPolicy returns the route policy attached by PolicyEnforcer.
func GetPolicy(ctx context.Context) *policy.Policy {
	if p, ok := ctx.Value(PolicyContextKey).(*policy.Policy); ok {
		return p
	}
	return nil
}

// GetSession returns the validated session, if any.
func GetSession(ctx context.Context) *model.Session {
	if s, ok := ctx.Value(SessionContextKey).(*model.Session); ok {
		return s
	}
	return nil
}

// GetSessionToken returns the opaque token of the validated session.
func GetSessionToken(ctx context.Context) string {
	if t, ok := ctx.Value(SessionTokenContextKey).(string); ok {
		return t
	}
	return ""
}

// ClientIP extracts the client address without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeError emits the JSON error envelope shared with the handlers.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// responseWriterInterceptor captures the status code
type responseWriterInterceptor struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriterInterceptor) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
