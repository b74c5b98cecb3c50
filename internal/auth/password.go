package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password for storage. New hashes
// are bcrypt; the salted and bare SHA-256 forms below remain
// verifiable for stores written by earlier deployments.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// GenerateSalt returns 16 random bytes, hex encoded.
func GenerateSalt() (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

// SaltedDigest is the legacy storage form: hex(sha256(password+salt)).
func SaltedDigest(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks a plaintext password against a stored hash.
// Three storage forms are accepted:
//   - bcrypt ("$2..." prefix), written by current code
//   - "digest:salt", the salted SHA-256 form
//   - bare hex SHA-256, the oldest form
func VerifyPassword(password, stored string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	if digest, salt, ok := strings.Cut(stored, ":"); ok {
		return constantTimeEqual(SaltedDigest(password, salt), digest)
	}
	sum := sha256.Sum256([]byte(password))
	return constantTimeEqual(hex.EncodeToString(sum[:]), stored)
}

// VerifyPlaintext compares a password against an environment-provided
// plaintext value. The plaintext path is deliberate (see the login
// flow); the constant-time compare keeps it from being a timing
// oracle.
func VerifyPlaintext(password, expected string) bool {
	if expected == "" {
		return false
	}
	return constantTimeEqual(password, expected)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

const (
	initialPasswordLength = 8
	digits                = "0123456789"
	lowercase             = "abcdefghijklmnopqrstuvwxyz"
	uppercase             = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateInitialPassword builds the first-run password: 8 characters
// with at least one uppercase letter and one digit, shuffled.
func GenerateInitialPassword() (string, error) {
	chars := make([]byte, 0, initialPasswordLength)

	c, err := randomChar(uppercase)
	if err != nil {
		return "", err
	}
	chars = append(chars, c)

	c, err = randomChar(digits)
	if err != nil {
		return "", err
	}
	chars = append(chars, c)

	for len(chars) < initialPasswordLength {
		c, err = randomChar(lowercase + digits)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates so the guaranteed characters are not positional.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), nil
}

func randomChar(charset string) (byte, error) {
	i, err := randomInt(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
