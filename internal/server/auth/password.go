// Package auth holds the credential primitives of the server: password
// hashing, session token issue/verify and TOTP code handling. It is
// transport-agnostic; the HTTP layer maps its outcomes to responses.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the vault has always used for stored
// credentials; changing it would invalidate no hashes (bcrypt records the
// cost) but new hashes must stay comparable in cost.
const bcryptCost = 10

// HashPassword produces a salted bcrypt hash of the plaintext password.
// The plaintext is never logged or stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored bcrypt hash.
// The comparison is constant-time inside bcrypt.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
