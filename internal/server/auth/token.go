package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dsmirnov/passvault/internal/common"
)

// SessionClaims is the identity assertion embedded in a session token:
// who the session belongs to and its validity window.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

// GenerateSessionToken signs a compact HS256 token for the account.
// IssuedAt and ExpiresAt are always set; validityDuration is measured
// from now.
func GenerateSessionToken(accountID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
		Email:     email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseSessionToken verifies signature and expiry and returns the embedded
// claims. Every failure mode (forged signature, malformed payload, expired
// token) collapses to common.ErrInvalidToken so callers cannot leak which
// one occurred to the end user; the underlying cause is retained in the
// error text for internal logging only.
func ParseSessionToken(tokenString string, secretKey []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
