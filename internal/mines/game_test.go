package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateFromRows(rows ...string) *KnownBoardState {
	s := NewKnownBoardState(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			s.Cell(x, y).IsMine = ch == '*'
		}
	}
	return s
}

func TestOpenCellCascades(t *testing.T) {
	g := NewGame(stateFromRows(
		"....",
		"....",
		"...*",
	))
	assert.Zero(t, g.OpenCell(0, 0))
	assert.Equal(t,
		"0 0 0 0\n"+
			"0 0 1 1\n"+
			"0 0 1 .\n",
		NewGrid(g.State(), false).ToString(4))
	assert.True(t, g.Won)
	assert.False(t, g.Dead)
}

func TestOpenCellOnMine(t *testing.T) {
	g := NewGame(stateFromRows(
		"*..",
		"...",
	))
	g.FlagCell(2, 1)
	assert.Equal(t, -1, g.OpenCell(0, 0))
	assert.True(t, g.Dead)
	assert.False(t, g.Won)
	assert.Equal(t,
		"X . .\n"+
			". . x\n",
		NewGrid(g.State(), true).ToString(3))
}

func TestFlagCellToggles(t *testing.T) {
	g := NewGame(stateFromRows("*."))
	g.FlagCell(0, 0)
	assert.Equal(t, Flagged, g.State().Cell(0, 0).OpenState)
	assert.Zero(t, g.OpenCell(0, 0))
	assert.Equal(t, Flagged, g.State().Cell(0, 0).OpenState)
	g.FlagCell(0, 0)
	assert.Equal(t, Closed, g.State().Cell(0, 0).OpenState)
}

func TestChordCell(t *testing.T) {
	g := NewGame(stateFromRows(
		"*..",
		"...",
		"...",
	))
	g.OpenCell(1, 1)
	g.FlagCell(0, 0)
	g.ChordCell(1, 1)
	assert.True(t, g.Won)
	assert.Equal(t,
		"F 1 0\n"+
			"1 1 0\n"+
			"0 0 0\n",
		NewGrid(g.State(), false).ToString(3))
}

func TestNewRandomGame(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, p := range []GameParams{Beginner, Intermediate, Expert, {Width: 3, Height: 3, MineCount: 8}} {
		x, y := r.IntN(p.Width), r.IntN(p.Height)
		g, err := NewRandomGame(p, x, y, r)
		require.NoError(t, err)
		s := g.State()
		assert.Equal(t, p.MineCount, s.MineCount())
		want := s.MineField()
		assert.Equal(t, want.Mines(), g.Field().Mines())
		assert.Equal(t, want.MineCount(), g.Field().MineCount())
		for i := range s.Cells {
			require.Equal(t, want.Adjacent(i), g.Field().Adjacent(i), "cell %d", i)
		}
		assert.False(t, s.Cell(x, y).IsMine)
		assert.Equal(t, Opened, s.Cell(x, y).OpenState)
		assert.False(t, g.Dead)
	}

	_, err := NewRandomGame(Beginner, 9, 0, r)
	assert.Error(t, err)
	_, err = NewRandomGame(GameParams{Width: 2, Height: 2, MineCount: 4}, 0, 0, r)
	assert.Error(t, err)
}

func TestNewRandomGameKeepsFirstClickClear(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 20 {
		g, err := NewRandomGame(Expert, 10, 8, r)
		require.NoError(t, err)
		s := g.State()
		for _, j := range g.Field().Neighbours(s.Index(10, 8)) {
			assert.False(t, s.Cells[j].IsMine)
		}
	}
}

func TestPlayRandomlyStopsWhenOver(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	g, err := NewRandomGame(Intermediate, 0, 0, r)
	require.NoError(t, err)
	g.PlayRandomly(10000, 0.2, r)
	assert.True(t, g.Dead || g.Won)
	require.NoError(t, ValidateKnownBoardState(g.State()))
}

func TestCellViewString(t *testing.T) {
	assert.Equal(t, ".", Unknown.String())
	assert.Equal(t, "F", Flag.String())
	assert.Equal(t, "X", ExplodedMine.String())
	assert.Equal(t, "x", WrongFlag.String())
	assert.Equal(t, "*", UnflaggedMine.String())
	assert.Equal(t, "3", CellView(3).String())
	assert.Equal(t, "!", CellView(9).String())
}
