package codec

import (
	"github.com/vancomm/minesweeper-codec/internal/arith"
	"github.com/vancomm/minesweeper-codec/internal/coders"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

// Tally counts what remains to be seen of a view state. It is computed from
// the whole board before encoding, transmitted, and then both sides take
// away each cell's contribution as it is coded, so every counter ends at
// zero.
type Tally struct {
	Opened         int // opened cells, mines included
	OpenMines      int // opened cells that are mines
	Flagged        int // flagged cells
	WrongFlags     int // flagged cells that are not mines
	ClosedInRegion int // cells in an open region that are not opened
}

func (t Tally) Zero() bool {
	return t == Tally{}
}

// Untouched reports whether nothing was opened or flagged.
func (t Tally) Untouched() bool {
	return t.Opened == 0 && t.Flagged == 0
}

// SafeOpened is the number of opened cells that are not mines.
func (t Tally) SafeOpened() int {
	return t.Opened - t.OpenMines
}

// CorrectFlags is the number of flags placed on mines.
func (t Tally) CorrectFlags() int {
	return t.Flagged - t.WrongFlags
}

// count adds d times the contribution of one cell.
func (t *Tally) count(mine, inRegion bool, s mines.OpenState, d int) {
	switch s {
	case mines.Opened:
		t.Opened += d
		if mine {
			t.OpenMines += d
		}
	case mines.Flagged:
		t.Flagged += d
		if !mine {
			t.WrongFlags += d
		}
	}
	if inRegion && s != mines.Opened {
		t.ClosedInRegion += d
	}
}

func (t *Tally) remove(mine, inRegion bool, s mines.OpenState) {
	t.count(mine, inRegion, s, -1)
}

// countTally runs the same scan as the view-state coder to find the
// starting tally of states.
func countTally(field *mines.MineField, states []mines.OpenState) Tally {
	var t Tally
	region := newRegionTracker(field)
	for i, s := range states {
		t.count(field.IsMine(i), region.inRegion(i), s, 1)
		region.visit(i, s)
	}
	return t
}

// TallyCoder writes a [Tally] for a board with Cells cells. The rarely
// non-zero counters share a zero-width [coders.BitExtended].
type TallyCoder struct {
	Cells int
}

var (
	rareCoder = coders.BitExtended{Width: 0}
	flagCoder = coders.BitExtended{Width: 2}
)

func (c TallyCoder) Encode(enc *arith.Encoder, t Tally) {
	coders.Number{N: c.Cells + 1}.Encode(enc, t.Opened)
	rareCoder.Encode(enc, t.OpenMines)
	flagCoder.Encode(enc, t.Flagged)
	rareCoder.Encode(enc, t.WrongFlags)
	rareCoder.Encode(enc, t.ClosedInRegion)
}

func (c TallyCoder) Decode(dec *arith.Decoder) Tally {
	var t Tally
	t.Opened = coders.Number{N: c.Cells + 1}.Decode(dec)
	t.OpenMines = rareCoder.Decode(dec)
	t.Flagged = flagCoder.Decode(dec)
	t.WrongFlags = rareCoder.Decode(dec)
	t.ClosedInRegion = rareCoder.Decode(dec)
	return t
}
