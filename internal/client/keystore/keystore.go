// Package keystore persists the client's derived encryption key (and small
// related metadata) in a local SQLite database. The key never travels to
// the server; this store is the only place it lives between commands.
package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dsmirnov/passvault/internal/client/migrations"
	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/dbx"
)

// Well-known keys.
const (
	KeyEncryptionKey = "encryption_key"
	KeyEmail         = "email"
	KeySessionToken  = "session_token"
)

type Store struct {
	db dbx.DBTX
}

func New(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open opens (creating if necessary) the local database at path and applies
// migrations. The caller owns the returned *sql.DB.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("keystore open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("keystore migration error: %w", err)
	}

	return db, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO keystore (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set keystore[%s]: %w", key, err)
	}
	return nil
}

// Get returns the stored value, or common.ErrKeyNotAvailable when the key
// was never stored or was cleared.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM keystore WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrKeyNotAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM keystore WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete keystore[%s]: %w", key, err)
	}
	return nil
}

// Clear wipes everything, used on logout.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM keystore`)
	if err != nil {
		return fmt.Errorf("failed to clear keystore: %w", err)
	}
	return nil
}
