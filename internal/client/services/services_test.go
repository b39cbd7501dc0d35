package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dsmirnov/passvault/internal/client/api"
	"github.com/dsmirnov/passvault/internal/client/keystore"
)

const fakeSessionToken = "fake-session-token"

// fakeClient is an in-memory api.Client. It stores items exactly as the
// service hands them over, so tests can inspect what actually left the
// machine.
type fakeClient struct {
	users        map[string]string
	items        map[string]*api.Item
	requires2FA  bool
	loggedOut    bool
	sessionToken string
}

func newFakeClient() *fakeClient {
	return &fakeClient{users: map[string]string{}, items: map[string]*api.Item{}}
}

func (f *fakeClient) Register(ctx context.Context, email, password, name string) (*api.LoginResult, error) {
	f.users[email] = password
	user := &api.User{ID: uuid.NewString(), Email: email, Name: name}
	return &api.LoginResult{User: user, Token: fakeSessionToken}, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password, twoFactorCode string) (*api.LoginResult, error) {
	if f.requires2FA && twoFactorCode == "" {
		return &api.LoginResult{Requires2FA: true}, nil
	}
	return &api.LoginResult{User: &api.User{ID: "u1", Email: email}, Token: fakeSessionToken}, nil
}

func (f *fakeClient) SetSessionToken(token string) {
	f.sessionToken = token
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeClient) Me(ctx context.Context) (*api.User, error) {
	return &api.User{ID: "u1"}, nil
}

func (f *fakeClient) EnableTwoFactor(ctx context.Context) (*api.Enrollment, error) {
	return &api.Enrollment{Secret: "SECRET", QRCode: "data:image/png;base64,"}, nil
}

func (f *fakeClient) VerifyTwoFactor(ctx context.Context, code string) error {
	return nil
}

func (f *fakeClient) CreateItem(ctx context.Context, item *api.Item) (*api.Item, error) {
	copied := *item
	copied.ID = uuid.NewString()
	f.items[copied.ID] = &copied
	return &copied, nil
}

func (f *fakeClient) ListItems(ctx context.Context, search string) ([]*api.Item, error) {
	var result []*api.Item
	for _, item := range f.items {
		copied := *item
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeClient) GetItem(ctx context.Context, id string) (*api.Item, error) {
	copied := *f.items[id]
	return &copied, nil
}

func (f *fakeClient) UpdateItem(ctx context.Context, item *api.Item) (*api.Item, error) {
	copied := *item
	f.items[item.ID] = &copied
	return &copied, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE keystore (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func newTestKeystore(t *testing.T, db *sql.DB) *keystore.Store {
	t.Helper()
	return keystore.New(db)
}
