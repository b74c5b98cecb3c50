package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
)

const sessionKeyPrefix = "session:"

// SessionManager issues and validates opaque session tokens. Records
// live in the KV layer with a TTL, so sessions survive process
// restarts whenever the store does.
type SessionManager struct {
	store kv.Store
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewSessionManager(store kv.Store, ttl time.Duration, log *logger.Logger) *SessionManager {
	return &SessionManager{
		store: store,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// Create issues a new session bound to the client's IP and
// User-Agent and returns the opaque token for the cookie.
func (m *SessionManager) Create(ctx context.Context, ip, userAgent string) (string, error) {
	token := uuid.NewString()
	now := m.now()
	sess := model.Session{
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
		SessionKey: token,
	}
	if err := m.put(ctx, token, sess, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Validate checks the token and, on success, returns the session
// record. Rejections: unknown token, elapsed expiry, or a client
// fingerprint where neither IP nor User-Agent matches (a weak
// hijacking signal; one of the two is allowed to change).
//
// Sessions slide: once more than half the TTL has elapsed the expiry
// is pushed out again, capped at twice the TTL from creation.
func (m *SessionManager) Validate(ctx context.Context, token, ip, userAgent string) (*model.Session, bool) {
	if token == "" {
		return nil, false
	}
	raw, err := m.store.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, false
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		m.log.Error("corrupt session record", "error", err)
		return nil, false
	}

	now := m.now()
	if now.After(sess.ExpiresAt) {
		m.Destroy(ctx, token)
		return nil, false
	}
	if sess.IP != ip && sess.UserAgent != userAgent {
		m.log.Warn("session fingerprint mismatch", "session", fragment(token))
		m.Destroy(ctx, token)
		return nil, false
	}

	if now.Sub(sess.CreatedAt) > m.ttl/2 {
		hardCap := sess.CreatedAt.Add(2 * m.ttl)
		next := now.Add(m.ttl)
		if next.After(hardCap) {
			next = hardCap
		}
		if next.After(sess.ExpiresAt) {
			sess.ExpiresAt = next
			if err := m.put(ctx, token, sess, next.Sub(now)); err != nil {
				m.log.Error("session extension failed", "error", err)
			}
		}
	}
	return &sess, true
}

// Destroy deletes the server-side record. Store errors are logged,
// not surfaced: logout must always appear to succeed to the client,
// and a second destroy of the same token is a no-op.
func (m *SessionManager) Destroy(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := m.store.Delete(ctx, sessionKeyPrefix+token); err != nil {
		m.log.Error("session delete failed", "session", fragment(token), "error", err)
	}
}

func (m *SessionManager) put(ctx context.Context, token string, sess model.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, sessionKeyPrefix+token, string(data), ttl)
}

// fragment returns a loggable prefix of a token.
func fragment(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
