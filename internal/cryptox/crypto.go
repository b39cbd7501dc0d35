// Package cryptox implements the client-side cryptography of PassVault:
// key derivation from the account password and symmetric encryption of
// vault secret fields. The server never sees the derived key; it stores
// and transports only the opaque ciphertext strings produced here.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dsmirnov/passvault/internal/common"
)

const nonceSize = 12

var errCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey derives the vault encryption key from the account password.
//
// The derivation is a plain unsalted SHA-256 digest: deterministic, so the
// same password always yields the same 32-byte key and the client can
// re-derive it on any login with nothing but the typed password. The flip
// side is that two accounts sharing a password share a key; see DESIGN.md.
func DeriveKey(password []byte) []byte {
	hash := sha256.Sum256(password)
	return hash[:]
}

// EncryptField encrypts a single vault field with AES-256-GCM.
//
// A fresh random 12-byte nonce is generated per call; the result is
// base64(nonce || ciphertext), safe to store and transport as text.
func EncryptField(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("gcm init: %w", err)
	}

	nonce := common.GenerateRandByteArray(nonceSize)

	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField. The key must be the one the field was
// encrypted with; GCM authenticates the ciphertext, so a wrong key or a
// tampered payload returns an error rather than garbage plaintext.
func DecryptField(encoded string, key []byte) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("ciphertext decode: %w", err)
	}
	if len(sealed) < nonceSize {
		return "", errCiphertextTooShort
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("gcm init: %w", err)
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}

	return string(plaintext), nil
}
