// Package server runs a development mirror of the remote card API on top of
// the local SQLite store.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/store"
)

// Config is the dependency bag passed to New.
type Config struct {
	Addr  string
	Mode  string
	Store *store.Store

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout time.Duration
}

// Server holds the gin engine and the repositories it serves.
type Server struct {
	gin    *gin.Engine
	l      *zap.Logger
	addr   string
	mode   string
	wait   time.Duration
	cards  store.CardRepo
	prog   store.ProgressRepo
	notifs store.NotificationRepo
}

// New validates cfg and registers all routes.
func New(logger *zap.Logger, cfg Config) (*Server, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	gin.SetMode(cfg.Mode)

	srv := &Server{
		gin:    gin.New(),
		l:      logger,
		addr:   cfg.Addr,
		mode:   cfg.Mode,
		wait:   cfg.ShutdownTimeout,
		cards:  cfg.Store.CardRepo(),
		prog:   cfg.Store.ProgressRepo(),
		notifs: cfg.Store.NotificationRepo(),
	}
	srv.mapHandlers()
	return srv, nil
}

// Handler exposes the engine for tests and embedding.
func (srv *Server) Handler() http.Handler {
	return srv.gin
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:              srv.addr,
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.l.Info("mirror server listening", zap.String("addr", srv.addr), zap.String("mode", srv.mode))
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.wait)
	defer cancel()
	srv.l.Info("mirror server shutting down")
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
