// Package server initializes and runs the vault server: it loads
// configuration, connects the database, wires services to the HTTP API
// and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dsmirnov/passvault/internal/logging"
	"github.com/dsmirnov/passvault/internal/server/accounts"
	"github.com/dsmirnov/passvault/internal/server/config"
	"github.com/dsmirnov/passvault/internal/server/httpapi"
	"github.com/dsmirnov/passvault/internal/server/shared/db"
	"github.com/dsmirnov/passvault/internal/server/vault"
)

// ErrNoSecretKey is returned when the server is started without a signing
// secret. There is no fallback value: a guessable secret would let anyone
// mint valid session tokens.
var ErrNoSecretKey = errors.New("SECRET_KEY is not set; refusing to start")

type App struct {
	config          *config.Config
	logger          logging.Logger
	repos           db.RepositoryManager
	accountsService *accounts.Service
	vaultService    *vault.Service
}

func NewApp(cfg *config.Config) (*App, error) {

	if cfg.SecretKey == "" {
		return nil, ErrNoSecretKey
	}

	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	as := accounts.NewService(rm.Accounts(), cfg)
	vs := vault.NewService(rm.Vault())

	return &App{config: cfg, logger: logger, repos: rm, accountsService: as, vaultService: vs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.logger, app.accountsService, app.vaultService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Conn().Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
