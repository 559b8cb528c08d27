package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

var (
	flagBoardBoardID string
	flagBoardWidth   int
	flagBoardHeight  int
	flagBoardMines   int
	flagBoardNumber  string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Convert between board ids and board numbers",
	Long: `A board number is the rank of a mine layout among all layouts with the
same size and mine count. Given --board-id, print the layout's size, mine
count and number. Given --width, --height, --mines and --number, print the
board id of that layout.

Examples:
  minecodec board --board-id QAA
  minecodec board --width 9 --height 9 --mines 10 --number 123456789`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&flagBoardBoardID, "board-id", "", "Encoded board id")
	boardCmd.Flags().IntVar(&flagBoardWidth, "width", 0, "Board width")
	boardCmd.Flags().IntVar(&flagBoardHeight, "height", 0, "Board height")
	boardCmd.Flags().IntVar(&flagBoardMines, "mines", 0, "Number of mines")
	boardCmd.Flags().StringVar(&flagBoardNumber, "number", "", "Board number in decimal")
	boardCmd.MarkFlagsOneRequired("board-id", "number")
	boardCmd.MarkFlagsMutuallyExclusive("board-id", "number")
}

type BoardInfo struct {
	BoardID     string `json:"boardId"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MineCount   int    `json:"mineCount"`
	BoardNumber string `json:"boardNumber"`
}

func runBoard(cmd *cobra.Command, _ []string) error {
	var (
		field *mines.MineField
		err   error
	)
	if flagBoardNumber != "" {
		n, ok := new(big.Int).SetString(flagBoardNumber, 10)
		if !ok {
			return fmt.Errorf("invalid board number %q", flagBoardNumber)
		}
		w, h := flagBoardWidth, flagBoardHeight
		if w <= 0 || h <= 0 || w > mines.MaxCells/h {
			return fmt.Errorf("invalid board size %dx%d", w, h)
		}
		field, err = mines.MineFieldFromBoardNumber(w, h, flagBoardMines, n)
	} else {
		field, err = codec.DecodeBoardID(flagBoardBoardID)
	}
	if err != nil {
		return err
	}

	id, err := codec.EncodeBoardID(field)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), BoardInfo{
		BoardID:     id,
		Width:       field.Width,
		Height:      field.Height,
		MineCount:   field.MineCount(),
		BoardNumber: field.BoardNumber().String(),
	})
}
