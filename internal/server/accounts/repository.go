package accounts

import (
	"context"
)

// Repository is the persistence contract for accounts. Implementations
// return common.ErrorNotFound for missing rows and common.ErrorAlreadyExists
// for duplicate emails.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)

	// SetPendingTwoFactorSecret stores a freshly generated secret without
	// enabling 2FA, overwriting any previous unverified secret.
	SetPendingTwoFactorSecret(ctx context.Context, id, secret string) error

	// EnableTwoFactor flips the enabled flag, but only if the stored secret
	// still equals the one that was just verified. The compare-and-set keeps
	// concurrent confirmations from ever producing a secret/flag mismatch.
	EnableTwoFactor(ctx context.Context, id, secret string) error
}
