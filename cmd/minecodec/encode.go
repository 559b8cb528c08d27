package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-codec/internal/codec"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Encode a snapshot",
	Long: `Read a snapshot as JSON from file, or stdin when no file is given,
and print its encoded form.

The snapshot looks like:
  {"width": 2, "height": 1, "elapsedTime": 1500,
   "cells": [{"isMine": true, "openState": "flagged"}, {"openState": "opened"}]}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	state, err := mines.ParseKnownBoardState(data)
	if err != nil {
		return err
	}
	encoded, err := codec.EncodeBoardState(state)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), encoded)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
