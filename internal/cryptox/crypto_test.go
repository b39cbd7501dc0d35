package cryptox

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("Passw0rd1")

	key1 := DeriveKey(password)
	key2 := DeriveKey(password)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same key for same password, got different")
	}
	if len(key1) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(key1))
	}

	// snapshot: sha256("Passw0rd1")
	expectedHex := "963ef1140e817de9c8597680a08c4a70aea11b67cf74a4716a1b05ad9a00d11a"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentPasswords(t *testing.T) {
	key1 := DeriveKey([]byte("password-1"))
	key2 := DeriveKey([]byte("password-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different keys for different passwords, got same")
	}
}

func TestEncryptDecryptField_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("Passw0rd1"))

	for _, plaintext := range []string{"", "hunter2", "длинный секрет с юникодом"} {
		ct, err := EncryptField(plaintext, key)
		if err != nil {
			t.Fatalf("EncryptField error: %v", err)
		}
		if strings.Contains(ct, plaintext) && plaintext != "" {
			t.Fatalf("ciphertext contains plaintext")
		}

		got, err := DecryptField(ct, key)
		if err != nil {
			t.Fatalf("DecryptField error: %v", err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
		}
	}
}

func TestEncryptField_NoncesDiffer(t *testing.T) {
	key := DeriveKey([]byte("Passw0rd1"))

	ct1, err := EncryptField("same input", key)
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}
	ct2, err := EncryptField("same input", key)
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}
	if ct1 == ct2 {
		t.Fatalf("expected distinct ciphertexts for repeated encryption")
	}
}

func TestDecryptField_WrongKeyFails(t *testing.T) {
	ct, err := EncryptField("secret", DeriveKey([]byte("password-1")))
	if err != nil {
		t.Fatalf("EncryptField error: %v", err)
	}

	if _, err := DecryptField(ct, DeriveKey([]byte("password-2"))); err == nil {
		t.Fatalf("expected error when decrypting with wrong key, got nil")
	}
}

func TestDecryptField_MalformedInput(t *testing.T) {
	key := DeriveKey([]byte("Passw0rd1"))

	if _, err := DecryptField("not-base64!!!", key); err == nil {
		t.Fatalf("expected error for invalid base64, got nil")
	}
	if _, err := DecryptField("AAAA", key); err == nil {
		t.Fatalf("expected error for truncated payload, got nil")
	}
}
