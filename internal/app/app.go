package app

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-codec/internal/config"
	"github.com/vancomm/minesweeper-codec/internal/database"
	"github.com/vancomm/minesweeper-codec/internal/middleware"
)

type App struct {
	cfg    *config.Config
	log    *logrus.Logger
	router *http.ServeMux
	db     *pgxpool.Pool
	owners *config.Signer
	ws     *config.WebSocket
}

func New(cfg *config.Config, log *logrus.Logger) *App {
	return &App{
		cfg:    cfg,
		log:    log,
		router: http.NewServeMux(),
		ws:     config.NewWebSocket(cfg.Server.CORSOrigins),
	}
}

// Handler returns the router wrapped in the middleware chain. Routes must
// have been loaded.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Recover(a.log),
		middleware.Cors(a.cfg.Server.CORSOrigins),
		middleware.Logging(a.log),
	)
}

// Start serves until ctx is cancelled. Shares are only served when a
// database is configured.
func (a *App) Start(ctx context.Context) error {
	if a.cfg.Database.Configured() {
		db, err := database.ConnectAndMigrate(ctx, a.cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		a.db = db

		if !a.cfg.JWT.Configured() {
			a.log.Warn("no JWT secret configured, share owner tokens will not survive a restart")
		}
		if a.owners, err = a.cfg.JWT.NewSigner(); err != nil {
			return err
		}
	} else {
		a.log.Warn("no database configured, shares are disabled")
	}

	a.loadRoutes()

	server := &http.Server{
		Addr:        a.cfg.Server.Addr,
		Handler:     a.Handler(),
		ReadTimeout: a.cfg.Server.ReadTimeout.Duration,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
