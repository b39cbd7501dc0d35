package keystore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dsmirnov/passvault/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE keystore (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	s := New(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyEncryptionKey, []byte{0x01, 0x02}))

	v, err := s.Get(ctx, KeyEncryptionKey)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGetMissingKey(t *testing.T) {
	s := New(setupDB(t))

	v, err := s.Get(context.Background(), KeyEncryptionKey)
	require.True(t, errors.Is(err, common.ErrKeyNotAvailable))
	require.Nil(t, v)
}

func TestSetOverwrites(t *testing.T) {
	s := New(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestClearWipesEverything(t *testing.T) {
	s := New(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyEncryptionKey, []byte{1}))
	require.NoError(t, s.Set(ctx, KeyEmail, []byte("alice@example.com")))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Get(ctx, KeyEncryptionKey)
	assert.True(t, errors.Is(err, common.ErrKeyNotAvailable))
	_, err = s.Get(ctx, KeyEmail)
	assert.True(t, errors.Is(err, common.ErrKeyNotAvailable))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := New(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "x", []byte{0x01}))
	require.NoError(t, s.Delete(ctx, "x"))
	require.NoError(t, s.Delete(ctx, "x"))

	_, err := s.Get(ctx, "x")
	require.True(t, errors.Is(err, common.ErrKeyNotAvailable))
}

func TestOpenRunsMigrations(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db)
	require.NoError(t, s.Set(ctx, KeyEncryptionKey, []byte("secret")))

	v, err := s.Get(ctx, KeyEncryptionKey)
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), v)
}
