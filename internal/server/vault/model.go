// Package vault provides server-side persistence for vault items. The
// password field is opaque ciphertext produced by the client; the server
// stores and returns it without ever seeing the plaintext.
package vault

import "time"

type Item struct {
	ID                string
	AccountID         string
	Title             string
	EncryptedPassword string
	URL               string
	Notes             string
	Tags              []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
