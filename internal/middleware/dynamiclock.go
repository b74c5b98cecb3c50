package middleware

import "net/http"

// DynamicLockHeader carries the rotating nonce on gated calls.
const DynamicLockHeader = "X-Dynamic-Lock"

// LockChecker validates a presented nonce value.
type LockChecker interface {
	Check(value string) bool
}

// DynamicLockGate requires unauthenticated clients to echo the
// current rotating nonce on lock-gated routes. Authenticated sessions
// bypass the check. This is a speed bump against scripted access, not
// a security control.
func DynamicLockGate(lock LockChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gated := false
			if p := GetPolicy(r.Context()); p != nil {
				gated = p.Rules.LockGated
			}
			if !gated || GetSession(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			if !lock.Check(r.Header.Get(DynamicLockHeader)) {
				writeError(w, http.StatusForbidden, "LOCK_INVALID", "missing or stale dynamic lock")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
