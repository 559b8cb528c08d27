package mines

import (
	"strconv"
	"strings"
)

// CellView is what a player sees of a cell, or, when mines are revealed,
// what the cell actually holds.
type CellView int8

const (
	Unknown       CellView = -2
	Flag          CellView = -1
	ExplodedMine  CellView = 65
	WrongFlag     CellView = 66
	UnflaggedMine CellView = 67
	// 0-8 for an opened cell with the given number of mined neighbours
)

func (v CellView) String() string {
	switch {
	case v == Unknown:
		return "."
	case v == Flag:
		return "F"
	case v == ExplodedMine:
		return "X"
	case v == WrongFlag:
		return "x"
	case v == UnflaggedMine:
		return "*"
	case 0 <= v && v <= 8:
		return strconv.Itoa(int(v))
	default:
		return "!"
	}
}

type Grid []CellView

// NewGrid renders s. With reveal set, closed mines and misplaced flags are
// shown as they would be after the game ends.
func NewGrid(s *KnownBoardState, reveal bool) Grid {
	f := s.MineField()
	g := make(Grid, len(s.Cells))
	for i, c := range s.Cells {
		switch {
		case c.OpenState == Opened && c.IsMine:
			g[i] = ExplodedMine
		case c.OpenState == Opened:
			g[i] = CellView(f.Adjacent(i))
		case c.OpenState == Flagged && reveal && !c.IsMine:
			g[i] = WrongFlag
		case c.OpenState == Flagged:
			g[i] = Flag
		case reveal && c.IsMine:
			g[i] = UnflaggedMine
		default:
			g[i] = Unknown
		}
	}
	return g
}

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for i, v := range g {
		b.WriteString(v.String())
		if (i+1)%width == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
