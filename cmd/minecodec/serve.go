package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the encode and decode endpoints and the worker websocket.

Shares are stored in PostgreSQL and served only when a database is
configured through the config file, DATABASE_URL or the POSTGRES_*
variables. Pending migrations are applied on start.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(cfg.Fields()).Info("starting server")
	if err := app.New(cfg, log).Start(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
