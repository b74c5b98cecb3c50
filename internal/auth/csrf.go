package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/model"
)

const csrfKeyPrefix = "csrf:"

// CSRFManager issues per-session CSRF tokens and validates the
// token/session pair presented on sensitive mutating calls.
type CSRFManager struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewCSRFManager(store kv.Store, ttl time.Duration) *CSRFManager {
	return &CSRFManager{store: store, ttl: ttl, now: time.Now}
}

// Issue creates a token for the session. The embedded timestamp and
// session fragment are for debuggability only; the binding that
// matters is the server-side record.
func (m *CSRFManager) Issue(ctx context.Context, sessionID string) (string, error) {
	random := make([]byte, 16)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	token := fmt.Sprintf("%d.%s.%s", m.now().UnixMilli(), hex.EncodeToString(random), fragment(sessionID))

	rec := model.CSRFToken{
		SessionID: sessionID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	if err := m.store.Put(ctx, csrfKeyPrefix+token, string(data), m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Validate requires an exact token match, non-expiry, and session
// equality. Expired or mismatched tokens are deleted on check, so a
// failed validation burns the token.
func (m *CSRFManager) Validate(ctx context.Context, token, sessionID string) bool {
	if token == "" || sessionID == "" {
		return false
	}
	raw, err := m.store.Get(ctx, csrfKeyPrefix+token)
	if err != nil {
		return false
	}
	var rec model.CSRFToken
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		m.store.Delete(ctx, csrfKeyPrefix+token)
		return false
	}
	if m.now().After(rec.ExpiresAt) || rec.SessionID != sessionID {
		m.store.Delete(ctx, csrfKeyPrefix+token)
		return false
	}
	return true
}
