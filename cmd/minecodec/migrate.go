package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/database"
)

var flagDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back share database migrations",
	Long: `Apply every pending migration, or roll back the last N with --down.

Examples:
  minecodec migrate
  minecodec migrate --down 1`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&flagDown, "down", 0, "Number of migrations to roll back")
}

func runMigrate(_ *cobra.Command, _ []string) error {
	url, err := cfg.Database.ConnString()
	if err != nil {
		return err
	}
	var (
		version uint
		dirty   bool
	)
	if flagDown > 0 {
		version, dirty, err = database.Rollback(url, database.Migrations, flagDown)
	} else {
		version, dirty, err = database.Migrate(url, database.Migrations)
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
	return nil
}
