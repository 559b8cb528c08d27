package codec

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-codec/internal/arith"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// parseBoard builds a snapshot from rows of '.' (closed safe), '*' (closed
// mine), 'o' (opened safe), 'X' (opened mine), 'f' (flagged safe) and 'F'
// (flagged mine).
func parseBoard(t *testing.T, rows ...string) *mines.KnownBoardState {
	t.Helper()
	s := mines.NewKnownBoardState(len(rows[0]), len(rows))
	for y, row := range rows {
		require.Len(t, row, s.Width)
		for x, ch := range row {
			c := s.Cell(x, y)
			switch ch {
			case '.':
			case '*':
				c.IsMine = true
			case 'o':
				c.OpenState = mines.Opened
			case 'X':
				c.IsMine, c.OpenState = true, mines.Opened
			case 'f':
				c.OpenState = mines.Flagged
			case 'F':
				c.IsMine, c.OpenState = true, mines.Flagged
			default:
				t.Fatalf("bad cell %q", ch)
			}
		}
	}
	return s
}

func roundTrip(t *testing.T, s *mines.KnownBoardState) *mines.EncodedBoardState {
	t.Helper()
	e, err := EncodeBoardState(s)
	require.NoError(t, err)
	have, err := DecodeBoardState(e)
	require.NoError(t, err)
	require.Equal(t, s, have)
	return e
}

func randomState(r *rand.Rand, width, height int) *mines.KnownBoardState {
	s := mines.NewKnownBoardState(width, height)
	density := r.Float64() * 0.4
	for i := range s.Cells {
		s.Cells[i] = mines.KnownCell{
			IsMine:    r.Float64() < density,
			OpenState: mines.OpenState(r.IntN(3)),
		}
	}
	return s
}

func TestSmallExample(t *testing.T) {
	s := parseBoard(t,
		"F.",
		".o",
	)
	s.ElapsedTime = 123456

	e := roundTrip(t, s)
	assert.Equal(t, "QAA", e.BoardID)
	assert.NotEmpty(t, e.ViewState)
	assert.Equal(t, "QOIB", e.ElapsedTime)
}

func TestUntouchedBoardOmitsViewState(t *testing.T) {
	s := parseBoard(t,
		"*...",
		"..*.",
		"....",
	)
	e := roundTrip(t, s)
	assert.Empty(t, e.ViewState)
	assert.Empty(t, e.ElapsedTime)

	states, err := DecodeViewState(s.MineField(), "")
	require.NoError(t, err)
	assert.Equal(t, make([]mines.OpenState, 12), states)
}

func TestEdgeBoards(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"single closed", []string{"."}},
		{"single opened", []string{"o"}},
		{"single flagged mine", []string{"F"}},
		{"single exploded mine", []string{"X"}},
		{"all mines opened", []string{"XXX", "XXX", "XXX"}},
		{"all mines mixed", []string{"XF*", "*FX"}},
		{"no mines all opened", []string{"ooo", "ooo", "ooo"}},
		{"no mines all flagged", []string{"fff", "fff", "fff"}},
		{"single row", []string{"oo*.f.F..oX"}},
		{"single column", []string{"o", "*", "F", ".", "o"}},
		{"wrong flags in region", []string{
			"ooof",
			"o.oo",
			"oooo",
			"oo**",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roundTrip(t, parseBoard(t, test.rows...))
		})
	}
}

func TestRandomStates(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		s := randomState(r, 1+r.IntN(30), 1+r.IntN(30))
		roundTrip(t, s)
	}
}

func TestPlayedGames(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	params := []mines.GameParams{
		mines.Beginner,
		mines.Intermediate,
		mines.Expert,
		{Width: 7, Height: 13, MineCount: 20},
		{Width: 40, Height: 3, MineCount: 30},
	}
	for _, p := range params {
		for range 20 {
			g, err := mines.NewRandomGame(p, r.IntN(p.Width), r.IntN(p.Height), r)
			require.NoError(t, err)
			g.PlayRandomly(r.IntN(p.Width*p.Height), r.Float64()*0.3, r)
			g.State().ElapsedTime = r.Int64N(1 << 40)
			roundTrip(t, g.State())
		}
	}
}

func TestLargeBoards(t *testing.T) {
	if testing.Short() {
		t.Skip("large boards are slow")
	}
	r := rand.New(rand.NewPCG(5, 6))
	for _, size := range []int{100, 150} {
		p := mines.GameParams{Width: size, Height: size, MineCount: size * size / 5}
		g, err := mines.NewRandomGame(p, size/2, size/2, r)
		require.NoError(t, err)
		g.PlayRandomly(size*size/4, 0.1, r)
		roundTrip(t, g.State())

		roundTrip(t, randomState(r, size, size))
	}
}

func TestStandardSizesWithCanonicalCountCostThreeBits(t *testing.T) {
	for _, p := range []mines.GameParams{mines.Beginner, mines.Intermediate, mines.Expert} {
		d := Dimensions{Width: p.Width, Height: p.Height}
		enc := arith.NewEncoder()
		DimensionCoder{}.Encode(enc, d)
		MineCountCoder{d}.Encode(enc, p.MineCount)
		assert.Equal(t, 3, enc.Flush().Len(), "%dx%d", p.Width, p.Height)
	}
}

func TestDimensionsAndMineCounts(t *testing.T) {
	dims := []Dimensions{
		{1, 1}, {2, 2}, {9, 9}, {16, 16}, {30, 16}, {16, 30},
		{1, 200}, {200, 1}, {150, 150}, {1000, 3},
	}
	for _, d := range dims {
		for _, count := range []int{0, 1, d.Cells() / 5, d.Cells() / 2, d.Cells()} {
			enc := arith.NewEncoder()
			DimensionCoder{}.Encode(enc, d)
			MineCountCoder{d}.Encode(enc, count)

			dec := arith.NewDecoder(enc.Flush())
			have := DimensionCoder{}.Decode(dec)
			require.Equal(t, d, have)
			assert.Equal(t, count, MineCountCoder{have}.Decode(dec), "%v with %d mines", d, count)
		}
	}
}

func TestTallyIsExhausted(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for range 50 {
		s := randomState(r, 1+r.IntN(20), 1+r.IntN(20))
		f := s.MineField()
		states := openStates(s)

		enc := arith.NewEncoder()
		left := ViewStateCoder{Field: f}.Encode(enc, states)
		assert.True(t, left.Zero(), "encoder left %+v", left)

		have, left := ViewStateCoder{Field: f}.Decode(arith.NewDecoder(enc.Flush()))
		assert.True(t, left.Zero(), "decoder left %+v", left)
		assert.Equal(t, states, have)
	}
}

func TestTally(t *testing.T) {
	s := parseBoard(t,
		"oooo",
		"o.oX",
		"ooof",
		"F*.*",
	)
	tally := countTally(s.MineField(), openStates(s))
	assert.Equal(t, Tally{
		Opened:         10,
		OpenMines:      1,
		Flagged:        2,
		WrongFlags:     1,
		ClosedInRegion: 1, // the closed cell in the top-left zero area
	}, tally)
	assert.Equal(t, 9, tally.SafeOpened())
	assert.Equal(t, 1, tally.CorrectFlags())
}

func TestRegionTracker(t *testing.T) {
	// top-left zero area, the rest cut off by a column of mines
	s := parseBoard(t,
		"o..*.",
		"...*.",
		"...*.",
	)
	f := s.MineField()
	r := newRegionTracker(f)
	assert.False(t, r.inRegion(0))

	r.visit(0, mines.Opened)
	for _, i := range []int{1, 2, 5, 6, 7, 10, 11, 12} {
		assert.True(t, r.inRegion(i), "cell %d", i)
	}
	for _, i := range []int{3, 4, 8, 9, 13, 14} {
		assert.False(t, r.inRegion(i), "cell %d", i)
	}
	assert.Equal(t, 8, r.regionAhead())

	r.visit(1, mines.Closed)
	assert.Equal(t, 7, r.regionAhead())
}

func TestRegionTrackerIgnoresNumberedCells(t *testing.T) {
	s := parseBoard(t,
		"*o.",
		"...",
	)
	r := newRegionTracker(s.MineField())
	r.visit(0, mines.Closed)
	r.visit(1, mines.Opened)
	assert.Zero(t, r.regionAhead())
}

func TestElapsedTime(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, ""},
		{1, "AQ"},
		{123456, "QOIB"},
		{1 << 40, "AAAAAAAB"},
	}
	for _, test := range tests {
		have := EncodeElapsedTime(test.ms)
		assert.Equal(t, test.want, have)
		ms, err := DecodeElapsedTime(have)
		require.NoError(t, err)
		assert.Equal(t, test.ms, ms)
	}

	_, err := DecodeElapsedTime("_____________w")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMalformedInput(t *testing.T) {
	_, err := DecodeBoardState(&mines.EncodedBoardState{})
	assert.Error(t, err)

	_, err = DecodeBoardState(&mines.EncodedBoardState{BoardID: "not base64!"})
	assert.Error(t, err)

	_, err = DecodeBoardID("*")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = EncodeBoardState(&mines.KnownBoardState{Width: 2, Height: 2})
	assert.Error(t, err)

	_, err = EncodeViewState(mines.NewMineField(2, 1, []bool{true, false}), []mines.OpenState{mines.Opened})
	assert.Error(t, err)
}

func TestTruncatedViewStateStillDecodes(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	s := randomState(r, 12, 12)
	e, err := EncodeBoardState(s)
	require.NoError(t, err)
	// keep whole base64 quanta so the string stays well formed
	e.ViewState = e.ViewState[:len(e.ViewState)/8*4]
	require.NotEmpty(t, e.ViewState)

	have, err := DecodeBoardState(e)
	require.NoError(t, err)
	assert.Equal(t, s.MineField().Mines(), have.MineField().Mines())
	assert.NoError(t, mines.ValidateKnownBoardState(have))
}

func TestViewStateAgainstOtherLayout(t *testing.T) {
	tests := []struct {
		name      string
		encodedOn []string
		decodedOn []string
	}{
		{"mines moved", []string{
			"ooo.",
			"o*f.",
			"....",
		}, []string{
			"*...",
			"....",
			"..**",
		}},
		{"more mines", []string{
			"oooo",
			"oooo",
			"oo.*",
		}, []string{
			"****",
			"*..*",
			"****",
		}},
		{"no mines", []string{
			"X.F",
			"...",
		}, []string{
			"...",
			"...",
		}},
		{"all mines", []string{
			"oo.",
			"o.f",
		}, []string{
			"***",
			"***",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := parseBoard(t, test.encodedOn...)
			b := parseBoard(t, test.decodedOn...)
			view, err := EncodeViewState(a.MineField(), openStates(a))
			require.NoError(t, err)
			boardID, err := EncodeBoardID(b.MineField())
			require.NoError(t, err)

			have, err := DecodeBoardState(&mines.EncodedBoardState{BoardID: boardID, ViewState: view})
			require.NoError(t, err)
			assert.Equal(t, b.MineField().Mines(), have.MineField().Mines())
			assert.NoError(t, mines.ValidateKnownBoardState(have))
		})
	}

	r := rand.New(rand.NewPCG(11, 12))
	for range 200 {
		w, h := 1+r.IntN(16), 1+r.IntN(16)
		a, b := randomState(r, w, h), randomState(r, w, h)
		e, err := EncodeBoardState(a)
		require.NoError(t, err)
		boardID, err := EncodeBoardID(b.MineField())
		require.NoError(t, err)
		e.BoardID = boardID

		have, err := DecodeBoardState(e)
		require.NoError(t, err)
		assert.NoError(t, mines.ValidateKnownBoardState(have))
	}
}
