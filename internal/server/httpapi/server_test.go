package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/logging"
	"github.com/dsmirnov/passvault/internal/server/accounts"
	"github.com/dsmirnov/passvault/internal/server/config"
	"github.com/dsmirnov/passvault/internal/server/vault"
)

// --- in-memory repositories ---

type memAccountsRepo struct {
	mu       sync.Mutex
	accounts map[string]*accounts.Account
}

func newMemAccountsRepo() *memAccountsRepo {
	return &memAccountsRepo{accounts: map[string]*accounts.Account{}}
}

func (m *memAccountsRepo) Create(ctx context.Context, a *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	a.CreatedAt = time.Now()
	m.accounts[a.ID] = a
	return a, nil
}

func (m *memAccountsRepo) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memAccountsRepo) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memAccountsRepo) SetPendingTwoFactorSecret(ctx context.Context, id, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.TwoFactorSecret = secret
	a.TwoFactorEnabled = false
	return nil
}

func (m *memAccountsRepo) EnableTwoFactor(ctx context.Context, id, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.TwoFactorSecret != secret {
		return common.ErrorNotFound
	}
	a.TwoFactorEnabled = true
	return nil
}

type memVaultRepo struct {
	mu    sync.Mutex
	items map[string]*vault.Item
}

func newMemVaultRepo() *memVaultRepo {
	return &memVaultRepo{items: map[string]*vault.Item{}}
}

func (m *memVaultRepo) Create(ctx context.Context, item *vault.Item) (*vault.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	m.items[item.ID] = item
	return item, nil
}

func (m *memVaultRepo) GetByID(ctx context.Context, accountID, id string) (*vault.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok || item.AccountID != accountID {
		return nil, common.ErrorNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *memVaultRepo) Update(ctx context.Context, item *vault.Item) (*vault.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[item.ID]
	if !ok || existing.AccountID != item.AccountID {
		return nil, common.ErrorNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return item, nil
}

func (m *memVaultRepo) Delete(ctx context.Context, accountID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok || item.AccountID != accountID {
		return common.ErrorNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memVaultRepo) Search(ctx context.Context, accountID, search string) ([]*vault.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*vault.Item
	for _, item := range m.items {
		if item.AccountID != accountID {
			continue
		}
		if search != "" && !containsFold(item.Title, search) {
			continue
		}
		copied := *item
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func containsFold(s, substr string) bool {
	return bytes.Contains(bytes.ToLower([]byte(s)), bytes.ToLower([]byte(substr)))
}

// --- harness ---

const testSecretKey = "test-signing-secret"

type testServer struct {
	*Server
	accountsRepo *memAccountsRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		EndpointAddr:            ":0",
		SecretKey:               testSecretKey,
		SessionValidityDuration: time.Hour,
		Environment:             "development",
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	accountsRepo := newMemAccountsRepo()
	as := accounts.NewService(accountsRepo, cfg)
	vs := vault.NewService(newMemVaultRepo())

	return &testServer{
		Server:       NewServer(cfg, logger, as, vs),
		accountsRepo: accountsRepo,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}

	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}
