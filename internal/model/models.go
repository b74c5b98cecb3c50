package model

import "time"

// Item is a single password-manager entry. Items are stored under
// individual keys ("item:{id}") and are never updated in place.
type Item struct {
	ID        string `json:"id"`
	Platform  string `json:"platform"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"` // RFC 3339
}

// Memo is a note entry. The whole collection is stored as one JSON
// array under the "all_memos" key.
type Memo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	CategoryColor int    `json:"categoryColor"` // 1..5
	CreatedAt     int64  `json:"createdAt"`     // epoch millis
	UpdatedAt     int64  `json:"updatedAt,omitempty"`
}

// Settings is the free-form app settings blob ("app:settings").
// POSTs shallow-merge into the stored object, so the value stays an
// open map rather than a fixed struct.
type Settings map[string]any

// Session is the server-side session record, keyed by the opaque
// token the client holds in its cookie.
type Session struct {
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	SessionKey string    `json:"sessionKey"`
}

// CSRFToken is the server-side record behind an issued CSRF token.
type CSRFToken struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginAttempt tracks failed logins for one client IP.
type LoginAttempt struct {
	Count       int       `json:"count"`
	LastAttempt time.Time `json:"lastAttempt"`
	LockedUntil time.Time `json:"lockedUntil,omitzero"`
}

// DynamicLock is the rotating server-wide nonce handed to
// unauthenticated clients.
type DynamicLock struct {
	UUID      string    `json:"uuid"`
	ExpiresAt time.Time `json:"expiryTime"`
}
