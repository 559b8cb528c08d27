package mines

import (
	"math/big"

	"github.com/vancomm/minesweeper-codec/internal/combin"
)

// MineField is a mine layout with its neighbour counts.
type MineField struct {
	Width, Height int
	mines         []bool
	adjacent      []int8
	mineCount     int

	boardNumber *big.Int
}

func NewMineField(width, height int, mines []bool) *MineField {
	f := &MineField{
		Width:    width,
		Height:   height,
		mines:    mines,
		adjacent: make([]int8, len(mines)),
	}
	for i, mine := range mines {
		if !mine {
			continue
		}
		f.mineCount++
		f.forEachNeighbour(i, func(j int) {
			f.adjacent[j]++
		})
	}
	return f
}

func (f *MineField) Len() int {
	return len(f.mines)
}

func (f *MineField) MineCount() int {
	return f.mineCount
}

func (f *MineField) IsMine(i int) bool {
	return f.mines[i]
}

// Mines returns the layout in row-major order. It must not be modified.
func (f *MineField) Mines() []bool {
	return f.mines
}

// Adjacent is the number of mines among the eight neighbours of cell i.
func (f *MineField) Adjacent(i int) int {
	return int(f.adjacent[i])
}

// IsZero reports whether cell i is a safe cell with no neighbouring mines;
// opening such a cell opens all of its neighbours.
func (f *MineField) IsZero(i int) bool {
	return !f.mines[i] && f.adjacent[i] == 0
}

// forEachNeighbour calls fn for every in-bounds cell around i.
func (f *MineField) forEachNeighbour(i int, fn func(j int)) {
	x, y := i%f.Width, i/f.Width
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			xx, yy := x+dx, y+dy
			if (dx != 0 || dy != 0) &&
				0 <= xx && xx < f.Width &&
				0 <= yy && yy < f.Height {
				fn(yy*f.Width + xx)
			}
		}
	}
}

// Neighbours returns the indices of the cells around i.
func (f *MineField) Neighbours(i int) []int {
	ns := make([]int, 0, 8)
	f.forEachNeighbour(i, func(j int) {
		ns = append(ns, j)
	})
	return ns
}

// BoardNumber is the rank of the layout among all layouts of the same size
// and mine count. It is computed on first use and cached until
// [MineField.InvalidateBoardNumber].
func (f *MineField) BoardNumber() *big.Int {
	if f.boardNumber == nil {
		o := combin.LexicalOrdering{Length: len(f.mines), Count: f.mineCount}
		rank, err := o.Rank(f.mines)
		if err != nil {
			panic(AssertionError{err.Error()})
		}
		f.boardNumber = rank
	}
	return f.boardNumber
}

func (f *MineField) InvalidateBoardNumber() {
	f.boardNumber = nil
}

// SetMine changes one cell of the layout and drops the cached board number.
func (f *MineField) SetMine(i int, mine bool) {
	if f.mines[i] == mine {
		return
	}
	f.mines[i] = mine
	d := int8(1)
	if mine {
		f.mineCount++
	} else {
		f.mineCount--
		d = -1
	}
	f.forEachNeighbour(i, func(j int) {
		f.adjacent[j] += d
	})
	f.InvalidateBoardNumber()
}

// MineFieldFromBoardNumber rebuilds the layout with the given rank.
func MineFieldFromBoardNumber(width, height, mineCount int, n *big.Int) (*MineField, error) {
	o := combin.LexicalOrdering{Length: width * height, Count: mineCount}
	mines, err := o.Unrank(n)
	if err != nil {
		return nil, err
	}
	return NewMineField(width, height, mines), nil
}
