package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dsmirnov/passvault/internal/common"
)

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	name, err := GetSimpleText(a.reader, "Name (optional)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	password, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, password, name); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			fmt.Println("An account with this email already exists")
			return
		}
		fmt.Println("Registration failed:", err)
		return
	}

	a.email = email
	fmt.Println("Account created, you are logged in")
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	password, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer common.WipeByteArray(password)

	outcome, err := a.auth.Login(ctx, email, password, "")
	if err != nil {
		a.reportLoginError(err)
		return
	}

	if outcome.TwoFactorRequired {
		code, err := GetSimpleText(a.reader, "Two-factor code", os.Stdout)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		outcome, err = a.auth.Login(ctx, email, password, code)
		if err != nil {
			a.reportLoginError(err)
			return
		}
	}

	a.email = outcome.Email
	fmt.Println("Logged in as", a.email)
}

func (a *App) reportLoginError(err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		fmt.Println("Invalid credentials")
	case errors.Is(err, common.ErrInvalidTwoFactorCode):
		fmt.Println("Invalid two-factor code")
	case errors.Is(err, common.ErrInvalidCodeFormat):
		fmt.Println("The code must be exactly 6 digits")
	default:
		fmt.Println("Login failed:", err)
	}
}

func (a *App) logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return
	}
	a.email = ""
	fmt.Println("Logged out, local key wiped")
}

func (a *App) enableTwoFactor(ctx context.Context) {
	enrollment, err := a.auth.EnableTwoFactor(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			fmt.Println("Please log in first")
			return
		}
		fmt.Println("Could not start 2FA enrollment:", err)
		return
	}

	fmt.Println("Scan the QR code or enter this secret in your authenticator app:")
	fmt.Println("  secret:", enrollment.Secret)
	fmt.Println("Then confirm with a code from the app.")

	code, err := GetSimpleText(a.reader, "Code", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := a.auth.VerifyTwoFactor(ctx, code); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCodeFormat):
			fmt.Println("The code must be exactly 6 digits")
		case errors.Is(err, common.ErrInvalidTwoFactorCode):
			fmt.Println("Invalid code, enrollment not confirmed. Run '2fa' to try again")
		default:
			fmt.Println("Could not confirm 2FA:", err)
		}
		return
	}

	fmt.Println("Two-factor authentication is now enabled")
}
