package accounts

import "time"

// Account is a registered vault owner. TwoFactorSecret and TwoFactorEnabled
// together form the enrollment state machine: no secret = disabled, secret
// without the flag = pending verification, secret with the flag = enabled.
// Both fields are mutated only through the enrollment operations.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	Name             string
	TwoFactorSecret  string
	TwoFactorEnabled bool
	CreatedAt        time.Time
}

// TwoFactorPending reports whether enrollment was started but never
// confirmed. A pending secret may be discarded and regenerated.
func (a *Account) TwoFactorPending() bool {
	return a.TwoFactorSecret != "" && !a.TwoFactorEnabled
}
