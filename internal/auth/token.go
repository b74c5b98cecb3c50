package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot token")

// SnapshotClaims carries a fallback-store snapshot inside a signed
// cookie while the primary store is down.
type SnapshotClaims struct {
	Data map[string]string `json:"data"`
	jwt.RegisteredClaims
}

// SnapshotSigner signs and verifies the fallback cookie. Without the
// signature a client could hand the server forged store contents.
type SnapshotSigner struct {
	secret string
	ttl    time.Duration
}

func NewSnapshotSigner(secret string, ttl time.Duration) *SnapshotSigner {
	return &SnapshotSigner{secret: secret, ttl: ttl}
}

func (s *SnapshotSigner) Sign(data map[string]string) (string, error) {
	claims := SnapshotClaims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vaultbox",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *SnapshotSigner) Verify(tokenStr string) (map[string]string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SnapshotClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SnapshotClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSnapshot
	}
	return claims.Data, nil
}
