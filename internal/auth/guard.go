package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
)

const attemptKeyPrefix = "login:attempts:"

// Guard is the brute-force lockout keyed by client IP. Attempt
// records live in the KV layer with the attempt-window TTL, which
// doubles as the opportunistic purge of stale counters.
type Guard struct {
	store       kv.Store
	maxAttempts int
	lockout     time.Duration
	window      time.Duration
	log         *logger.Logger
	now         func() time.Time
}

func NewGuard(store kv.Store, maxAttempts int, lockout, window time.Duration, log *logger.Logger) *Guard {
	return &Guard{
		store:       store,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		window:      window,
		log:         log,
		now:         time.Now,
	}
}

// GuardStatus is the outcome of a guard check or a recorded failure.
type GuardStatus struct {
	Allowed    bool
	Remaining  int           // attempts left before lockout
	RetryAfter time.Duration // non-zero while locked
}

// Check is called before verifying credentials. A client inside an
// active lockout is rejected with the remaining time; an elapsed
// lockout resets the counter.
func (g *Guard) Check(ctx context.Context, ip string) GuardStatus {
	rec := g.load(ctx, ip)
	now := g.now()

	if !rec.LockedUntil.IsZero() {
		if now.Before(rec.LockedUntil) {
			return GuardStatus{RetryAfter: rec.LockedUntil.Sub(now)}
		}
		rec = model.LoginAttempt{}
		g.save(ctx, ip, rec)
	}
	return GuardStatus{Allowed: true, Remaining: g.maxAttempts - rec.Count}
}

// RecordFailure increments the counter for a failed login and locks
// the client out once the threshold is reached.
func (g *Guard) RecordFailure(ctx context.Context, ip string) GuardStatus {
	rec := g.load(ctx, ip)
	now := g.now()

	if !rec.LockedUntil.IsZero() && !now.Before(rec.LockedUntil) {
		rec = model.LoginAttempt{}
	}

	rec.Count++
	rec.LastAttempt = now
	if rec.Count >= g.maxAttempts {
		rec.LockedUntil = now.Add(g.lockout)
	}
	g.save(ctx, ip, rec)

	if !rec.LockedUntil.IsZero() && now.Before(rec.LockedUntil) {
		g.log.Warn("client locked out", "ip", ip, "attempts", rec.Count)
		return GuardStatus{RetryAfter: rec.LockedUntil.Sub(now)}
	}
	return GuardStatus{Allowed: true, Remaining: g.maxAttempts - rec.Count}
}

// Reset clears the counter after a successful login.
func (g *Guard) Reset(ctx context.Context, ip string) {
	if err := g.store.Delete(ctx, attemptKeyPrefix+ip); err != nil {
		g.log.Error("attempt counter reset failed", "ip", ip, "error", err)
	}
}

func (g *Guard) load(ctx context.Context, ip string) model.LoginAttempt {
	var rec model.LoginAttempt
	raw, err := g.store.Get(ctx, attemptKeyPrefix+ip)
	if err != nil {
		return rec
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		g.log.Error("corrupt attempt record", "ip", ip, "error", err)
	}
	return rec
}

func (g *Guard) save(ctx context.Context, ip string, rec model.LoginAttempt) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := g.store.Put(ctx, attemptKeyPrefix+ip, string(data), g.window); err != nil {
		g.log.Error("attempt record save failed", "ip", ip, "error", err)
	}
}
