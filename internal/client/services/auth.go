// Package services contains application services for the PassVault client:
// authentication with the encryption key lifecycle, and vault operations
// with client-side encryption.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dsmirnov/passvault/internal/client/api"
	"github.com/dsmirnov/passvault/internal/client/keystore"
	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/cryptox"
	"github.com/dsmirnov/passvault/internal/dbx"
)

// LoginOutcome reports how a login attempt ended. TwoFactorRequired means
// the password was right but a one-time code must be supplied before a
// session exists.
type LoginOutcome struct {
	TwoFactorRequired bool
	Email             string
}

// AuthService owns the session and the encryption key lifecycle. The key is
// derived from the login password, stored locally on success and wiped on
// logout; it never reaches the server. The session token is cached next to
// it so a session can be resumed after a client restart.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, name string) error
	Login(ctx context.Context, email string, password []byte, twoFactorCode string) (*LoginOutcome, error)
	Logout(ctx context.Context) error
	EnableTwoFactor(ctx context.Context) (*api.Enrollment, error)
	VerifyTwoFactor(ctx context.Context, code string) error
	RestoreSession(ctx context.Context) (string, error)
}

type authService struct {
	client api.Client
	db     *sql.DB
}

func NewAuthService(client api.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getKeys() *keystore.Store {
	return keystore.New(a.db)
}

// storeSession derives the encryption key from the password and persists
// it together with the account email and the session token, in a single
// transaction so the three rows can never exist partially. Wipes the
// derived key copy afterwards.
func (a *authService) storeSession(ctx context.Context, email string, password []byte, token string) error {
	key := cryptox.DeriveKey(password)
	defer common.WipeByteArray(key)

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		keys := keystore.New(tx)
		if err := keys.Set(ctx, keystore.KeyEncryptionKey, key); err != nil {
			return err
		}
		if err := keys.Set(ctx, keystore.KeyEmail, []byte(email)); err != nil {
			return err
		}
		return keys.Set(ctx, keystore.KeySessionToken, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, email string, password []byte, name string) error {
	result, err := a.client.Register(ctx, email, string(password), name)
	if err != nil {
		return err
	}
	// Registration issues a session, so the key becomes available right away.
	return a.storeSession(ctx, email, password, result.Token)
}

func (a *authService) Login(ctx context.Context, email string, password []byte, twoFactorCode string) (*LoginOutcome, error) {
	result, err := a.client.Login(ctx, email, string(password), twoFactorCode)
	if err != nil {
		return nil, err
	}

	if result.Requires2FA {
		return &LoginOutcome{TwoFactorRequired: true, Email: email}, nil
	}

	if err := a.storeSession(ctx, email, password, result.Token); err != nil {
		return nil, err
	}
	return &LoginOutcome{Email: result.User.Email}, nil
}

// Logout ends the server session and wipes the local key material. The key
// is cleared even if the server call fails; a dead session is recoverable,
// a lingering key is not acceptable.
func (a *authService) Logout(ctx context.Context) error {
	serverErr := a.client.Logout(ctx)

	if err := a.getKeys().Clear(ctx); err != nil {
		return err
	}
	return serverErr
}

func (a *authService) EnableTwoFactor(ctx context.Context) (*api.Enrollment, error) {
	return a.client.EnableTwoFactor(ctx)
}

func (a *authService) VerifyTwoFactor(ctx context.Context, code string) error {
	return a.client.VerifyTwoFactor(ctx, code)
}

// RestoreSession resumes a session left over from a previous run: it loads
// the cached session token into the API client and returns the stored
// email. Returns common.ErrKeyNotAvailable when nobody is logged in.
func (a *authService) RestoreSession(ctx context.Context) (string, error) {
	keys := a.getKeys()

	email, err := keys.Get(ctx, keystore.KeyEmail)
	if err != nil {
		return "", err
	}
	token, err := keys.Get(ctx, keystore.KeySessionToken)
	if err != nil {
		return "", err
	}

	a.client.SetSessionToken(string(token))
	return string(email), nil
}
