// Package db wires the server's repositories to a concrete database.
package db

import (
	"context"
	"database/sql"

	"github.com/dsmirnov/passvault/internal/server/accounts"
	"github.com/dsmirnov/passvault/internal/server/vault"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Accounts() accounts.Repository
	Vault() vault.Repository
}
