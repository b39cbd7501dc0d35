package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/dsmirnov/passvault/internal/common"
)

// TOTP parameters shared by enrollment and login challenge:
// 6-digit codes over 30-second steps, accepted within ±2 steps (±60s)
// of server time to tolerate client clock drift.
const (
	totpIssuer = "Password Vault"
	totpPeriod = 30
	totpSkew   = 2
)

// GenerateTOTPKey creates a fresh random shared secret for the account,
// wrapped in a provisioning key that carries issuer and account label.
// The base32 secret and the otpauth:// URI are both reachable from the
// returned key; they are shown to the user exactly once.
func GenerateTOTPKey(accountEmail string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountEmail,
	})
}

// TOTPKeyQRCode renders the provisioning URI as a 200x200 PNG and returns
// it as a base64 data URL, ready for an <img> tag or terminal display.
func TOTPKeyQRCode(key *otp.Key) (string, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ValidateCodeFormat rejects anything that is not exactly 6 ASCII digits
// before any cryptographic work is done.
func ValidateCodeFormat(code string) error {
	if len(code) != 6 {
		return common.ErrInvalidCodeFormat
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return common.ErrInvalidCodeFormat
		}
	}
	return nil
}

// ValidateTOTPCode reports whether code matches the stored base32 secret
// at time t, within the configured skew window. Callers must run
// ValidateCodeFormat first.
func ValidateTOTPCode(code, secret string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
