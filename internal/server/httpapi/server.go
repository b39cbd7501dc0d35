// Package httpapi is the HTTP boundary of the vault server. It validates
// request bodies, maps core outcomes to status codes and manages the
// session cookie; the core packages underneath never see HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/passvault/internal/logging"
	"github.com/dsmirnov/passvault/internal/server/accounts"
	"github.com/dsmirnov/passvault/internal/server/config"
	"github.com/dsmirnov/passvault/internal/server/vault"
)

type Server struct {
	address   string
	engine    *gin.Engine
	accounts  *accounts.Service
	vault     *vault.Service
	logger    logging.Logger
	jwtSecret []byte
	cookie    CookieConfig
}

func NewServer(cfg *config.Config, l logging.Logger, as *accounts.Service, vs *vault.Service) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		address:   cfg.EndpointAddr,
		accounts:  as,
		vault:     vs,
		logger:    l.With("module", "httpapi"),
		jwtSecret: []byte(cfg.SecretKey),
		cookie: CookieConfig{
			MaxAge: int(cfg.SessionValidityDuration.Seconds()),
			Secure: cfg.IsProduction(),
		},
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/logout", s.logout)
		authGroup.GET("/me", s.requireAuth, s.me)
		authGroup.POST("/2fa/enable", s.requireAuth, s.enableTwoFactor)
		authGroup.POST("/2fa/verify", s.requireAuth, s.verifyTwoFactor)

		vaultGroup := api.Group("/vault", s.requireAuth)
		vaultGroup.POST("", s.createItem)
		vaultGroup.GET("", s.listItems)
		vaultGroup.GET("/:id", s.getItem)
		vaultGroup.PUT("/:id", s.updateItem)
		vaultGroup.DELETE("/:id", s.deleteItem)
	}

	s.engine = engine
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.engine}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx := context.Background()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
