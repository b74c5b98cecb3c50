package middleware

import (
	"net/http"
	"time"

	"github.com/raakeshmj/vaultbox/internal/audit"
)

// Audit emits one structured log line per request, annotated with the
// session fragment once auth has run.
func Audit(logger audit.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriterInterceptor{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			// Audit runs outside auth, so log the presented (not yet
			// validated) token fragment.
			session := ""
			if c, err := r.Cookie(SessionCookie); err == nil && len(c.Value) > 8 {
				session = c.Value[:8]
			}

			logger.Log(audit.LogEntry{
				Timestamp: start,
				ClientIP:  ClientIP(r),
				Session:   session,
				Action:    r.Method + " " + r.URL.Path,
				Resource:  r.URL.Path,
				Status:    rw.statusCode,
				Metadata: map[string]interface{}{
					"duration_ms": time.Since(start).Milliseconds(),
					"user_agent":  r.UserAgent(),
				},
			})
		})
	}
}
