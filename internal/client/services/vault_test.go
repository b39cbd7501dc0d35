package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/passvault/internal/client/keystore"
	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/cryptox"
)

func loggedInVault(t *testing.T) (VaultService, *fakeClient, *keystore.Store) {
	t.Helper()
	db := newTestDB(t)
	keys := newTestKeystore(t, db)
	client := newFakeClient()

	a := NewAuthService(client, db)
	_, err := a.Login(context.Background(), "alice@example.com", []byte("Passw0rd1"), "")
	require.NoError(t, err)

	return NewVaultService(client, keys), client, keys
}

func TestAddEncryptsBeforeSending(t *testing.T) {
	v, client, _ := loggedInVault(t)
	ctx := context.Background()

	created, err := v.Add(ctx, &Entry{Title: "GitHub", Password: "hunter2", Tags: []string{"dev"}})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", created.Password)

	// What the server received must not contain the plaintext.
	require.Len(t, client.items, 1)
	for _, item := range client.items {
		assert.NotEqual(t, "hunter2", item.Password)
		assert.NotContains(t, item.Password, "hunter2")

		key := cryptox.DeriveKey([]byte("Passw0rd1"))
		plaintext, err := cryptox.DecryptField(item.Password, key)
		require.NoError(t, err)
		assert.Equal(t, "hunter2", plaintext)
	}
}

func TestListDecrypts(t *testing.T) {
	v, _, _ := loggedInVault(t)
	ctx := context.Background()

	_, err := v.Add(ctx, &Entry{Title: "GitHub", Password: "hunter2"})
	require.NoError(t, err)
	_, err = v.Add(ctx, &Entry{Title: "Bank", Password: "correct horse"})
	require.NoError(t, err)

	entries, err := v.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	passwords := map[string]string{}
	for _, e := range entries {
		passwords[e.Title] = e.Password
	}
	assert.Equal(t, "hunter2", passwords["GitHub"])
	assert.Equal(t, "correct horse", passwords["Bank"])
}

func TestGetAndUpdateRoundTrip(t *testing.T) {
	v, _, _ := loggedInVault(t)
	ctx := context.Background()

	created, err := v.Add(ctx, &Entry{Title: "GitHub", Password: "hunter2"})
	require.NoError(t, err)

	fetched, err := v.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", fetched.Password)

	fetched.Password = "new-password"
	updated, err := v.Update(ctx, fetched)
	require.NoError(t, err)
	assert.Equal(t, "new-password", updated.Password)

	fetched, err = v.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-password", fetched.Password)
}

func TestOperationsFailWithoutKey(t *testing.T) {
	keys := newTestKeystore(t, newTestDB(t))
	v := NewVaultService(newFakeClient(), keys)
	ctx := context.Background()

	_, err := v.Add(ctx, &Entry{Title: "GitHub", Password: "hunter2"})
	assert.True(t, errors.Is(err, common.ErrKeyNotAvailable))

	_, err = v.List(ctx, "")
	assert.True(t, errors.Is(err, common.ErrKeyNotAvailable))

	_, err = v.Get(ctx, "id")
	assert.True(t, errors.Is(err, common.ErrKeyNotAvailable))

	err = v.Delete(ctx, "id")
	assert.True(t, errors.Is(err, common.ErrKeyNotAvailable))
}

func TestDecryptionWithWrongKeyFails(t *testing.T) {
	v, _, keys := loggedInVault(t)
	ctx := context.Background()

	created, err := v.Add(ctx, &Entry{Title: "GitHub", Password: "hunter2"})
	require.NoError(t, err)

	// Simulate a key derived from a different password, e.g. after a
	// password change elsewhere. Decryption must fail loudly.
	require.NoError(t, keys.Set(ctx, keystore.KeyEncryptionKey, cryptox.DeriveKey([]byte("other-password"))))

	_, err = v.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption error")
}

func TestExportImportRoundTrip(t *testing.T) {
	v, _, _ := loggedInVault(t)
	ctx := context.Background()

	_, err := v.Add(ctx, &Entry{Title: "GitHub", Password: "hunter2", URL: "https://github.com"})
	require.NoError(t, err)
	_, err = v.Add(ctx, &Entry{Title: "Bank", Password: "correct horse"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, v.Export(ctx, &buf))
	assert.Contains(t, buf.String(), "hunter2")

	// Import into a fresh vault under a different account key.
	db2 := newTestDB(t)
	keys2 := newTestKeystore(t, db2)
	client2 := newFakeClient()
	a2 := NewAuthService(client2, db2)
	_, err = a2.Login(ctx, "bob@example.com", []byte("another-pass"), "")
	require.NoError(t, err)
	v2 := NewVaultService(client2, keys2)

	n, err := v2.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := v2.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	passwords := map[string]string{}
	for _, e := range entries {
		passwords[e.Title] = e.Password
	}
	assert.Equal(t, "hunter2", passwords["GitHub"])
}
