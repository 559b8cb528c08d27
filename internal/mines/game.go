package mines

import (
	"math/rand/v2"
)

type GameParams struct {
	Width, Height, MineCount int
}

var (
	Beginner     = GameParams{Width: 9, Height: 9, MineCount: 10}
	Intermediate = GameParams{Width: 16, Height: 16, MineCount: 40}
	Expert       = GameParams{Width: 30, Height: 16, MineCount: 99}
)

func (p GameParams) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

// Game plays moves against a mine layout and records the result as a
// [KnownBoardState].
type Game struct {
	Dead, Won bool
	field     *MineField
	state     *KnownBoardState
}

func NewGame(state *KnownBoardState) *Game {
	return &Game{
		field: state.MineField(),
		state: state,
	}
}

// NewRandomGame places MineCount mines uniformly at random, keeping the
// first click at (x, y) and, where the board allows it, its neighbours
// clear, then opens (x, y).
func NewRandomGame(params GameParams, x, y int, r *rand.Rand) (*Game, error) {
	if !params.PointInBounds(x, y) {
		return nil, assertf("first click %d:%d is out of bounds", x, y)
	}
	cells := params.Width * params.Height
	if params.MineCount < 0 || params.MineCount >= cells {
		return nil, assertf("cannot place %d mines on %d cells", params.MineCount, cells)
	}

	state := NewKnownBoardState(params.Width, params.Height)
	field := NewMineField(params.Width, params.Height, make([]bool, cells))
	start := state.Index(x, y)
	near := make([]bool, cells)
	near[start] = true
	for _, j := range field.Neighbours(start) {
		near[j] = true
	}

	far := make([]int, 0, cells)
	border := make([]int, 0, 8)
	for i := range cells {
		switch {
		case i == start:
		case near[i]:
			border = append(border, i)
		default:
			far = append(far, i)
		}
	}
	r.Shuffle(len(far), func(i, j int) { far[i], far[j] = far[j], far[i] })
	r.Shuffle(len(border), func(i, j int) { border[i], border[j] = border[j], border[i] })
	for _, i := range append(far, border...)[:params.MineCount] {
		field.SetMine(i, true)
		state.Cells[i].IsMine = true
	}

	g := &Game{field: field, state: state}
	g.OpenCell(x, y)
	return g, nil
}

func (g *Game) State() *KnownBoardState {
	return g.state
}

func (g *Game) Field() *MineField {
	return g.field
}

// OpenCell opens (x, y) and cascades through cells with no neighbouring
// mines. It returns -1 if the cell was a mine.
func (g *Game) OpenCell(x, y int) int {
	i := g.state.Index(x, y)
	if g.state.Cells[i].OpenState != Closed {
		return 0
	}
	if g.field.IsMine(i) {
		/*
		 * The player has landed on a mine. Expose the mine that
		 * killed them, but not the rest.
		 */
		g.Dead = true
		g.state.Cells[i].OpenState = Opened
		return -1
	}

	todo := []int{i}
	g.state.Cells[i].OpenState = Opened
	for len(todo) > 0 {
		j := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if !g.field.IsZero(j) {
			continue
		}
		for _, k := range g.field.Neighbours(j) {
			if g.state.Cells[k].OpenState == Closed {
				g.state.Cells[k].OpenState = Opened
				todo = append(todo, k)
			}
		}
	}

	/* If the player has already lost, don't let them win as well. */
	if g.Dead {
		return 0
	}

	covered := 0
	for _, c := range g.state.Cells {
		if c.OpenState != Opened {
			covered++
		}
	}
	if covered == g.field.MineCount() {
		g.Won = true
	}
	return 0
}

func (g *Game) FlagCell(x, y int) {
	c := g.state.Cell(x, y)
	switch c.OpenState {
	case Closed:
		c.OpenState = Flagged
	case Flagged:
		c.OpenState = Closed
	}
}

// ChordCell opens every unflagged neighbour of an opened cell once the
// number of flags around it matches its mine count.
func (g *Game) ChordCell(x, y int) {
	i := g.state.Index(x, y)
	if g.state.Cells[i].OpenState != Opened || g.field.IsMine(i) {
		return
	}
	flags := 0
	closed := make([]int, 0, 8)
	for _, j := range g.field.Neighbours(i) {
		switch g.state.Cells[j].OpenState {
		case Flagged:
			flags++
		case Closed:
			closed = append(closed, j)
		}
	}
	if flags != g.field.Adjacent(i) {
		return
	}
	for _, j := range closed {
		g.OpenCell(j%g.state.Width, j/g.state.Width)
		if g.Dead || g.Won {
			return
		}
	}
}

// PlayRandomly makes up to moves random opens and flags, flagging a cell
// with probability flagRate. It stops early once the game is over.
func (g *Game) PlayRandomly(moves int, flagRate float64, r *rand.Rand) {
	for range moves {
		if g.Dead || g.Won {
			return
		}
		x, y := r.IntN(g.state.Width), r.IntN(g.state.Height)
		if r.Float64() < flagRate {
			g.FlagCell(x, y)
		} else {
			g.OpenCell(x, y)
		}
	}
}
