package codec

import (
	"math"

	"github.com/vancomm/minesweeper-codec/internal/arith"
	"github.com/vancomm/minesweeper-codec/internal/coders"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

// minShare keeps uncertain outcomes away from probability 0 and 1 after
// rounding.
const minShare = 1e-9

// share is the probability of a against b, where both are non-negative
// weights. It is exactly 0 or 1 only when one of them is zero.
func share(a, b float64) float64 {
	switch {
	case b <= 0:
		return 1
	case a <= 0:
		return 0
	}
	return min(max(a/(a+b), minShare), 1-minShare)
}

// cellOdds are unnormalised weights of the three states of a cell.
type cellOdds struct {
	closed, open, flag float64
}

func (o cellOdds) certain() bool {
	n := 0
	for _, w := range [...]float64{o.closed, o.open, o.flag} {
		if w > 0 {
			n++
		}
	}
	return n <= 1
}

func (o cellOdds) normalized() cellOdds {
	o.closed = max(o.closed, 0)
	o.open = max(o.open, 0)
	o.flag = max(o.flag, 0)
	sum := o.closed + o.open + o.flag
	if sum <= 0 {
		return cellOdds{closed: 1}
	}
	return cellOdds{closed: o.closed / sum, open: o.open / sum, flag: o.flag / sum}
}

// flagRatio estimates how thoroughly the player flags: the share of mines
// flagged relative to the share of safe cells opened, capped at 1.
func flagRatio(t Tally, mineCount, safeCount int) float64 {
	if mineCount == 0 {
		return 0
	}
	flagged := float64(t.CorrectFlags()) / float64(mineCount)
	if safeCount == 0 || t.SafeOpened() <= 0 {
		if flagged > 0 {
			return 1
		}
		return 0
	}
	opened := float64(t.SafeOpened()) / float64(safeCount)
	return min(max(flagged/opened, 0), 1)
}

// viewModel predicts the state of each cell in row-major order from the
// remaining tally, the mine field, the left and upper neighbours and open
// region membership. Encoder and decoder drive identical models.
type viewModel struct {
	field     *mines.MineField
	tally     Tally
	flagRatio float64
	region    *regionTracker
	states    []mines.OpenState
	minesLeft int
	safeLeft  int
}

func newViewModel(field *mines.MineField, t Tally) *viewModel {
	minesLeft := field.MineCount()
	safeLeft := field.Len() - minesLeft
	return &viewModel{
		field:     field,
		tally:     t,
		flagRatio: flagRatio(t, minesLeft, safeLeft),
		region:    newRegionTracker(field),
		states:    make([]mines.OpenState, field.Len()),
		minesLeft: minesLeft,
		safeLeft:  safeLeft,
	}
}

// closedSafe is the number of unvisited safe cells left closed.
func (m *viewModel) closedSafe() int {
	return m.safeLeft - m.tally.SafeOpened() - m.tally.WrongFlags
}

func (m *viewModel) odds(i int) cellOdds {
	if m.region.inRegion(i) {
		return m.regionOdds()
	}
	t := m.tally
	var o cellOdds
	if m.field.IsMine(i) {
		o = cellOdds{
			closed: float64(m.minesLeft - t.OpenMines - t.CorrectFlags()),
			open:   float64(t.OpenMines),
			flag:   float64(t.CorrectFlags()),
		}
	} else {
		o = cellOdds{
			closed: float64(m.closedSafe()),
			flag:   float64(t.WrongFlags),
		}
		if t.SafeOpened() > 0 {
			// cells already inside open regions will take most of the opens
			regionOpens := max(m.region.regionAhead()-t.ClosedInRegion, 0)
			o.open = max(float64(t.SafeOpened()-regionOpens), 0.5)
		}
	}
	o = o.normalized()
	if o.certain() {
		return o
	}
	return m.adjust(i, o)
}

// regionOdds covers cells inside an open region. Those are never mines and
// are almost always opened; the exceptions are counted by ClosedInRegion.
func (m *viewModel) regionOdds() cellOdds {
	t := m.tally
	if t.ClosedInRegion <= 0 {
		return cellOdds{open: 1}
	}
	var o cellOdds
	if t.SafeOpened() > 0 {
		o.open = float64(max(m.region.regionAhead()-t.ClosedInRegion, 1))
	}
	flags, closed := float64(max(t.WrongFlags, 0)), float64(max(m.closedSafe(), 0))
	if flags+closed > 0 {
		rest := float64(t.ClosedInRegion)
		o.flag = rest * flags / (flags + closed)
		o.closed = rest * closed / (flags + closed)
	}
	return o.normalized()
}

// adjust sharpens odds using the already visited left and upper
// neighbours: the more of them look open, the likelier this cell is open or
// flagged too.
func (m *viewModel) adjust(i int, o cellOdds) cellOdds {
	w := m.field.Width
	var score float64
	n := 0
	if i%w > 0 {
		score += m.openness(i - 1)
		n++
	}
	if i >= w {
		score += m.openness(i - w)
		n++
	}
	if n == 0 {
		return o
	}
	e := math.Pow(4, 1-2*score/float64(n))
	return cellOdds{
		closed: o.closed,
		open:   math.Pow(o.open, e),
		flag:   math.Pow(o.flag, e),
	}.normalized()
}

// openness scores a visited neighbour between 0 (closed) and 1 (opened or
// flagged). A closed mine is weak evidence of a closed area when the player
// rarely flags.
func (m *viewModel) openness(j int) float64 {
	switch {
	case m.states[j] != mines.Closed:
		return 1
	case m.field.IsMine(j):
		return 1 - m.flagRatio
	default:
		return 0
	}
}

func (m *viewModel) visit(i int, s mines.OpenState) {
	mine := m.field.IsMine(i)
	m.tally.remove(mine, m.region.inRegion(i), s)
	m.region.visit(i, s)
	m.states[i] = s
	if mine {
		m.minesLeft--
	} else {
		m.safeLeft--
	}
}

// stateCoder writes or reads one cell as a closed/not-closed bit followed,
// for cells that are not closed, by an opened/flagged bit.
type stateCoder interface {
	code(i int, pClosed, pOpen float64) mines.OpenState
}

type stateEncoder struct {
	enc    *arith.Encoder
	states []mines.OpenState
}

func (c stateEncoder) code(i int, pClosed, pOpen float64) mines.OpenState {
	s := c.states[i]
	c.enc.EncodeBit(pClosed, s != mines.Closed)
	if s != mines.Closed {
		c.enc.EncodeBit(pOpen, s == mines.Flagged)
	}
	return s
}

type stateDecoder struct {
	dec *arith.Decoder
}

func (c stateDecoder) code(_ int, pClosed, pOpen float64) mines.OpenState {
	if !c.dec.DecodeBit(pClosed) {
		return mines.Closed
	}
	if c.dec.DecodeBit(pOpen) {
		return mines.Flagged
	}
	return mines.Opened
}

func (m *viewModel) run(c stateCoder) {
	for i := range m.states {
		o := m.odds(i)
		s := c.code(i, share(o.closed, o.open+o.flag), share(o.open, o.flag))
		m.visit(i, s)
	}
}

// ViewStateCoder writes the open/flag state of every cell of a known mine
// field. The returned tally is what is left after the last cell; it is zero
// whenever the stream was produced for this mine field.
type ViewStateCoder struct {
	Field *mines.MineField
}

func (c ViewStateCoder) Encode(enc *arith.Encoder, states []mines.OpenState) Tally {
	t := countTally(c.Field, states)
	touched := !t.Untouched()
	coders.Fair.Encode(enc, touched)
	if !touched {
		return Tally{}
	}
	TallyCoder{Cells: c.Field.Len()}.Encode(enc, t)
	m := newViewModel(c.Field, t)
	m.run(stateEncoder{enc: enc, states: states})
	return m.tally
}

func (c ViewStateCoder) Decode(dec *arith.Decoder) ([]mines.OpenState, Tally) {
	if !coders.Fair.Decode(dec) {
		return make([]mines.OpenState, c.Field.Len()), Tally{}
	}
	t := TallyCoder{Cells: c.Field.Len()}.Decode(dec)
	m := newViewModel(c.Field, t)
	m.run(stateDecoder{dec: dec})
	return m.states, m.tally
}
