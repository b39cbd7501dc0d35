package api

import "time"

// User mirrors the server's account representation.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Item is a vault item as it travels over the wire. Password carries the
// ciphertext; the client encrypts before sending and decrypts after
// fetching.
type Item struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// LoginResult is the outcome of a login or registration. When Requires2FA
// is set the password was accepted but no session was issued; the caller
// must retry with a one-time code. Token carries the session token so it
// can be cached locally and restored after a client restart.
type LoginResult struct {
	Requires2FA bool
	User        *User
	Token       string
}

// Enrollment carries what the user needs to add the account to an
// authenticator app.
type Enrollment struct {
	Secret string
	QRCode string
}
