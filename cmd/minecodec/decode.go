package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

var (
	flagBoardID     string
	flagViewState   string
	flagElapsedTime string
	flagText        bool
	flagReveal      bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode an encoded snapshot",
	Long: `Decode a board id with an optional view state and elapsed time.

The snapshot is printed as JSON, or as a grid with --text. The grid shows
numbers for opened cells, F for flags and . for closed cells. With --reveal
mines and wrong flags are shown too.

Examples:
  minecodec decode --board-id QAA
  minecodec decode --board-id QAA --view-state 2QI --elapsed-time QOIB --text`,
	Args: cobra.NoArgs,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&flagBoardID, "board-id", "", "Encoded board id")
	decodeCmd.Flags().StringVar(&flagViewState, "view-state", "", "Encoded view state")
	decodeCmd.Flags().StringVar(&flagElapsedTime, "elapsed-time", "", "Encoded elapsed time")
	decodeCmd.Flags().BoolVar(&flagText, "text", false, "Print the board as a text grid")
	decodeCmd.Flags().BoolVar(&flagReveal, "reveal", false, "Show mines in the text grid")
	decodeCmd.MarkFlagRequired("board-id")
}

func runDecode(cmd *cobra.Command, _ []string) error {
	state, err := codec.DecodeBoardState(&mines.EncodedBoardState{
		BoardID:     flagBoardID,
		ViewState:   flagViewState,
		ElapsedTime: flagElapsedTime,
	})
	if err != nil {
		return err
	}
	if !flagText {
		return printJSON(cmd.OutOrStdout(), state)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), mines.NewGrid(state, flagReveal).ToString(state.Width))
	return err
}
