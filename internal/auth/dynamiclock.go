package auth

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raakeshmj/vaultbox/internal/model"
)

// DynamicLock is the rotating nonce unauthenticated clients must echo
// back on gated API calls. It is a speed bump against naive scripted
// access, not a security boundary: any client that fetches it can
// satisfy it.
//
// There is no timer. The value is regenerated opportunistically when
// touched after its interval has elapsed, so it also works on hosts
// where background timers don't survive requests.
type DynamicLock struct {
	mu       sync.Mutex
	current  model.DynamicLock
	interval time.Duration
	now      func() time.Time
}

func NewDynamicLock(interval time.Duration) *DynamicLock {
	return &DynamicLock{interval: interval, now: time.Now}
}

// Current returns the valid lock value, rotating first if stale.
func (l *DynamicLock) Current() model.DynamicLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateIfStale()
	return l.current
}

// Check reports whether value matches the currently valid lock.
func (l *DynamicLock) Check(value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateIfStale()
	return subtle.ConstantTimeCompare([]byte(value), []byte(l.current.UUID)) == 1
}

func (l *DynamicLock) rotateIfStale() {
	now := l.now()
	if l.current.UUID != "" && now.Before(l.current.ExpiresAt) {
		return
	}
	l.current = model.DynamicLock{
		UUID:      uuid.NewString(),
		ExpiresAt: now.Add(l.interval),
	}
}
