package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/server/auth"
	"github.com/dsmirnov/passvault/internal/server/config"
)

// LoginResult is the outcome of a login attempt with a valid password.
// Either Requires2FA is set (the caller must re-submit with a code) or
// Token and Account are set.
type LoginResult struct {
	Requires2FA bool
	Token       string
	Account     *Account
}

// Enrollment is what beginning 2FA enrollment hands back to the client:
// the shared secret plus its provisioning forms, shown exactly once.
type Enrollment struct {
	Secret string
	URL    string
	QRCode string
}

type Service struct {
	repo                    Repository
	jwtSecret               []byte
	sessionValidityDuration time.Duration

	// now is a test seam for TOTP window checks.
	now func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                    repo,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
		now:                     time.Now,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs an initial session token for it,
// so registration doubles as the first login.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Account, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	account := &Account{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Name:         name,
	}

	account, err = s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		return nil, "", fmt.Errorf("error creating account: %w", err)
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return account, token, nil
}

// Login verifies the password and, when 2FA is enabled, the submitted code.
// A missing account and a wrong password are indistinguishable to the
// caller (both common.ErrorUnauthorized) so login cannot be used to probe
// which emails exist. With 2FA enabled and no code submitted, the result
// asks for the second factor instead of failing.
func (s *Service) Login(ctx context.Context, email, password, twoFactorCode string) (*LoginResult, error) {
	account, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	if account.TwoFactorEnabled {
		if twoFactorCode == "" {
			return &LoginResult{Requires2FA: true, Account: account}, nil
		}
		if err := auth.ValidateCodeFormat(twoFactorCode); err != nil {
			return nil, err
		}
		if !auth.ValidateTOTPCode(twoFactorCode, account.TwoFactorSecret, s.now()) {
			return nil, common.ErrInvalidTwoFactorCode
		}
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, Account: account}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return account, nil
}

// BeginEnrollment starts (or restarts) TOTP enrollment. Rejected once 2FA
// is enabled; restarting over a never-verified secret simply generates a
// fresh one. The flag stays off until ConfirmEnrollment succeeds.
func (s *Service) BeginEnrollment(ctx context.Context, accountID string) (*Enrollment, error) {
	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.TwoFactorEnabled {
		return nil, common.ErrTwoFactorAlreadyEnabled
	}

	key, err := auth.GenerateTOTPKey(account.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repo.SetPendingTwoFactorSecret(ctx, account.ID, key.Secret()); err != nil {
		return nil, common.ErrorInternal
	}

	qr, err := auth.TOTPKeyQRCode(key)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Enrollment{Secret: key.Secret(), URL: key.URL(), QRCode: qr}, nil
}

// ConfirmEnrollment validates the submitted code against the pending secret
// and, on match, transitions the account to Enabled. On mismatch the state
// is left untouched and the caller may retry.
func (s *Service) ConfirmEnrollment(ctx context.Context, accountID, code string) error {
	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.TwoFactorEnabled {
		return common.ErrTwoFactorAlreadyEnabled
	}
	if account.TwoFactorSecret == "" {
		return common.ErrEnrollmentNotStarted
	}

	if err := auth.ValidateCodeFormat(code); err != nil {
		return err
	}
	if !auth.ValidateTOTPCode(code, account.TwoFactorSecret, s.now()) {
		return common.ErrInvalidTwoFactorCode
	}

	if err := s.repo.EnableTwoFactor(ctx, account.ID, account.TwoFactorSecret); err != nil {
		return common.ErrorInternal
	}

	return nil
}

func (s *Service) issueToken(account *Account) (string, error) {
	return auth.GenerateSessionToken(account.ID, account.Email, s.jwtSecret, s.sessionValidityDuration)
}
