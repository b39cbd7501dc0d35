// Package cli is the interactive command-line interface of the PassVault
// client. It wires the API client, the local key store and the services,
// and runs a small REPL.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dsmirnov/passvault/internal/client/api"
	"github.com/dsmirnov/passvault/internal/client/config"
	"github.com/dsmirnov/passvault/internal/client/keystore"
	"github.com/dsmirnov/passvault/internal/client/services"
)

type App struct {
	config *config.Config
	db     *sql.DB
	auth   services.AuthService
	vault  services.VaultService
	email  string
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := keystore.Open(ctx, c.KeyDBPath)
	if err != nil {
		log.Printf("error initializing key database: %s", err.Error())
		return nil, err
	}

	apiClient, err := api.NewHTTPClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient, db)
	vs := services.NewVaultService(apiClient, keystore.New(db))

	app := &App{config: c, db: db, auth: as, vault: vs, reader: bufio.NewReader(os.Stdin)}

	// Pick up a session left over from a previous run, if any. The cached
	// token rides along on requests again; the server rejects it if it has
	// expired in the meantime.
	if email, err := as.RestoreSession(ctx); err == nil {
		app.email = email
	}

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
