package server

import (
	"net/http"
)

// snapshotCookie carries a signed copy of critical keys while the
// primary store is down, so credentials and settings survive process
// restarts in degraded mode.
const snapshotCookie = "vb_snapshot"

// snapshotKeys is the whitelist of keys small and critical enough to
// round-trip through a cookie. Sessions and CSRF tokens are
// deliberately excluded: they are already in the fallback and
// re-authenticating after a restart is acceptable.
var snapshotKeys = []string{"admin:password", "app:settings"}

// fallbackSnapshot restores the fallback store from the client's
// signed snapshot cookie and refreshes the cookie after the handler
// runs. It is a no-op while the primary store is healthy.
func (s *Server) fallbackSnapshot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.store.Degraded() {
			next.ServeHTTP(w, r)
			return
		}

		if cookie, err := r.Cookie(snapshotCookie); err == nil && cookie.Value != "" {
			data, err := s.signer.Verify(cookie.Value)
			if err != nil {
				s.log.Warn("rejecting bad snapshot cookie", "error", err)
			} else {
				s.store.Restore(data)
			}
		}

		// Cookies must be written before the handler body, so snapshot
		// the pre-request state; the current request's writes ride the
		// next response.
		snap := s.store.Snapshot(snapshotKeys)
		if len(snap) > 0 {
			if signed, err := s.signer.Sign(snap); err == nil {
				http.SetCookie(w, &http.Cookie{
					Name:     snapshotCookie,
					Value:    signed,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteStrictMode,
					MaxAge:   int(s.cfg.Auth.SessionTTL.Seconds()),
				})
			} else {
				s.log.Error("snapshot cookie sign failed", "error", err)
			}
		}

		next.ServeHTTP(w, r)
	})
}
