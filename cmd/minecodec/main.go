// minecodec packs minesweeper snapshots into short URL-safe strings.
//
// Usage:
//
//	minecodec encode [file]   - Encode a snapshot read from file or stdin
//	minecodec decode          - Decode a board id, view state and elapsed time
//	minecodec random          - Play a random game and print its encoding
//	minecodec board           - Convert between board ids and board numbers
//	minecodec serve           - Start the HTTP API
//	minecodec migrate         - Apply or roll back share database migrations
//
// Global flags:
//
//	--config <path>  - YAML config file, environment variables override it
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/config"
)

var (
	log = logrus.New()
	cfg *config.Config

	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minecodec",
	Short: "Minesweeper snapshot codec",
	Long: `minecodec encodes a minesweeper board, the state of every cell and
the elapsed time into three URL-safe base64 strings, and decodes them back.

Examples:
  minecodec encode game.json
  minecodec decode --board-id QAA --view-state 2QI --text
  minecodec random --width 30 --height 16 --mines 99
  minecodec serve --config codec.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		log.SetOutput(cmd.ErrOrStderr())
		codec.Log.SetOutput(cmd.ErrOrStderr())
		return cfg.SetupLogging(log, codec.Log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config file")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
