// Package api is the HTTP client for the vault server. It keeps the
// session cookie in a jar and translates server responses into sentinel
// errors the rest of the client can match on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dsmirnov/passvault/internal/common"
)

// Client defines the operations the CLI needs from the server.
type Client interface {
	Register(ctx context.Context, email, password, name string) (*LoginResult, error)
	Login(ctx context.Context, email, password, twoFactorCode string) (*LoginResult, error)
	SetSessionToken(token string)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
	EnableTwoFactor(ctx context.Context) (*Enrollment, error)
	VerifyTwoFactor(ctx context.Context, code string) error
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	ListItems(ctx context.Context, search string) ([]*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

// SetSessionToken primes the cookie jar with a previously issued session
// token, so a cached session survives a client restart. The server still
// decides whether the token is good.
func (c *HTTPClient) SetSessionToken(token string) {
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{
		{Name: "token", Value: token, Path: "/"},
	})
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

// mapError translates a failure response into a sentinel error where one
// applies, falling back to *Error with the server's message.
func mapError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized && body.Message == "Invalid code":
		return common.ErrInvalidTwoFactorCode
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode == http.StatusBadRequest && body.Message == "User already exists":
		return common.ErrorAlreadyExists
	case resp.StatusCode == http.StatusBadRequest && strings.HasPrefix(body.Message, "Invalid token format"):
		return common.ErrInvalidCodeFormat
	}

	return &Error{Status: resp.StatusCode, Message: body.Message}
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (*LoginResult, error) {
	var out struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &LoginResult{User: out.User, Token: out.Token}, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password, twoFactorCode string) (*LoginResult, error) {
	var out struct {
		Requires2FA bool   `json:"requires2FA"`
		User        *User  `json:"user"`
		Email       string `json:"email"`
		Token       string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password, "twoFactorCode": twoFactorCode}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	if out.Requires2FA {
		return &LoginResult{Requires2FA: true}, nil
	}
	return &LoginResult{User: out.User, Token: out.Token}, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) EnableTwoFactor(ctx context.Context) (*Enrollment, error) {
	var out struct {
		Secret string `json:"secret"`
		QRCode string `json:"qrCode"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/2fa/enable", nil, &out); err != nil {
		return nil, err
	}
	return &Enrollment{Secret: out.Secret, QRCode: out.QRCode}, nil
}

func (c *HTTPClient) VerifyTwoFactor(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/2fa/verify", map[string]string{"token": code}, nil)
}

func (c *HTTPClient) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	var out struct {
		Vault *Item `json:"vault"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/vault", item, &out); err != nil {
		return nil, err
	}
	return out.Vault, nil
}

func (c *HTTPClient) ListItems(ctx context.Context, search string) ([]*Item, error) {
	path := "/api/vault"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out struct {
		VaultItems []*Item `json:"vaultItems"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.VaultItems, nil
}

func (c *HTTPClient) GetItem(ctx context.Context, id string) (*Item, error) {
	var out struct {
		Vault *Item `json:"vault"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/vault/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Vault, nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	var out struct {
		Vault *Item `json:"vault"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/vault/"+url.PathEscape(item.ID), item, &out); err != nil {
		return nil, err
	}
	return out.Vault, nil
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/vault/"+url.PathEscape(id), nil, nil)
}
