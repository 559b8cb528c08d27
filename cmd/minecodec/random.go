package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

var (
	flagWidth    int
	flagHeight   int
	flagMines    int
	flagMoves    int
	flagFlagRate float64
	flagSeed     uint64
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Play a random game and print its encoding",
	Long: `Generate a board with a safe first click, make random moves and print
the encoded snapshot. Useful for producing test vectors.

Examples:
  minecodec random
  minecodec random --width 16 --height 16 --mines 40 --moves 200 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().IntVar(&flagWidth, "width", mines.Beginner.Width, "Board width")
	randomCmd.Flags().IntVar(&flagHeight, "height", mines.Beginner.Height, "Board height")
	randomCmd.Flags().IntVar(&flagMines, "mines", mines.Beginner.MineCount, "Number of mines")
	randomCmd.Flags().IntVar(&flagMoves, "moves", 30, "Random moves after the first click")
	randomCmd.Flags().Float64Var(&flagFlagRate, "flag-rate", 0.2, "Share of moves that toggle a flag")
	randomCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
}

func runRandom(cmd *cobra.Command, _ []string) error {
	seed := flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed))

	params := mines.GameParams{Width: flagWidth, Height: flagHeight, MineCount: flagMines}
	if params.Width <= 0 || params.Height <= 0 {
		return fmt.Errorf("invalid board size %dx%d", params.Width, params.Height)
	}
	started := time.Now()
	g, err := mines.NewRandomGame(params, r.IntN(params.Width), r.IntN(params.Height), r)
	if err != nil {
		return err
	}
	g.PlayRandomly(flagMoves, flagFlagRate, r)
	g.State().ElapsedTime = r.Int64N(int64(time.Hour / time.Millisecond))

	encoded, err := codec.EncodeBoardState(g.State())
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"seed":     seed,
		"dead":     g.Dead,
		"won":      g.Won,
		"duration": time.Since(started),
	}).Debug("played random game")
	return printJSON(cmd.OutOrStdout(), encoded)
}
