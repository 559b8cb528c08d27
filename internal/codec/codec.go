// Package codec turns minesweeper snapshots into three short URL-safe
// strings and back:
//
//   - the board id holds the dimensions and mine layout,
//   - the view state holds what the player opened and flagged,
//   - the elapsed time holds the play time in milliseconds.
//
// The strings carry no length, checksum or version. Decoding a view state
// against a different mine layout, or decoding a truncated string, yields a
// well formed but meaningless board rather than an error.
package codec

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-codec/internal/arith"
	"github.com/vancomm/minesweeper-codec/internal/bitset"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

var Log = logrus.New()

// ErrMalformed is returned for encoded strings that cannot describe any
// board.
var ErrMalformed = errors.New("malformed encoded board")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// catch turns a panic raised by a coder into an error.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok {
		panic(r)
	}
	*err = e
}

// EncodeBoardState encodes s. The view state is omitted for an untouched
// board and the elapsed time when it is zero.
func EncodeBoardState(s *mines.KnownBoardState) (*mines.EncodedBoardState, error) {
	if err := mines.ValidateKnownBoardState(s); err != nil {
		return nil, err
	}
	field := s.MineField()
	boardID, err := EncodeBoardID(field)
	if err != nil {
		return nil, err
	}
	e := &mines.EncodedBoardState{
		BoardID:     boardID,
		ElapsedTime: EncodeElapsedTime(s.ElapsedTime),
	}
	if !s.Untouched() {
		e.ViewState, err = EncodeViewState(field, openStates(s))
		if err != nil {
			return nil, err
		}
	}
	Log.WithFields(logrus.Fields{
		"width":        s.Width,
		"height":       s.Height,
		"board_id":     len(e.BoardID),
		"view_state":   len(e.ViewState),
		"elapsed_time": len(e.ElapsedTime),
	}).Debug("encoded board state")
	return e, nil
}

// DecodeBoardState is the inverse of [EncodeBoardState].
func DecodeBoardState(e *mines.EncodedBoardState) (*mines.KnownBoardState, error) {
	if err := mines.ValidateEncodedBoardState(e); err != nil {
		return nil, err
	}
	field, err := DecodeBoardID(e.BoardID)
	if err != nil {
		return nil, err
	}
	states, err := DecodeViewState(field, e.ViewState)
	if err != nil {
		return nil, err
	}
	elapsed, err := DecodeElapsedTime(e.ElapsedTime)
	if err != nil {
		return nil, err
	}
	s := mines.NewKnownBoardState(field.Width, field.Height)
	for i := range s.Cells {
		s.Cells[i] = mines.KnownCell{IsMine: field.IsMine(i), OpenState: states[i]}
	}
	s.ElapsedTime = elapsed
	return s, nil
}

func openStates(s *mines.KnownBoardState) []mines.OpenState {
	states := make([]mines.OpenState, len(s.Cells))
	for i, c := range s.Cells {
		states[i] = c.OpenState
	}
	return states
}

// EncodeBoardID encodes the dimensions and mine layout of f.
func EncodeBoardID(f *mines.MineField) (id string, err error) {
	defer catch(&err)
	enc := arith.NewEncoder()
	BoardCoder{}.Encode(enc, f)
	return enc.Flush().String(), nil
}

func DecodeBoardID(id string) (f *mines.MineField, err error) {
	b, err := bitset.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: board id: %w", ErrMalformed, err)
	}
	defer catch(&err)
	return BoardCoder{}.Decode(arith.NewDecoder(b)), nil
}

// EncodeViewState encodes the open state of every cell of f. An untouched
// board still produces a single-bit stream.
func EncodeViewState(f *mines.MineField, states []mines.OpenState) (view string, err error) {
	if len(states) != f.Len() {
		return "", fmt.Errorf("have %d cell states, want %d", len(states), f.Len())
	}
	defer catch(&err)
	enc := arith.NewEncoder()
	if left := (ViewStateCoder{Field: f}).Encode(enc, states); !left.Zero() {
		return "", fmt.Errorf("tally not exhausted: %+v", left)
	}
	return enc.Flush().String(), nil
}

// DecodeViewState decodes view against f, which must be the mine field the
// view was encoded with. An empty view decodes to an untouched board.
func DecodeViewState(f *mines.MineField, view string) (states []mines.OpenState, err error) {
	if view == "" {
		return make([]mines.OpenState, f.Len()), nil
	}
	b, err := bitset.Parse(view)
	if err != nil {
		return nil, fmt.Errorf("%w: view state: %w", ErrMalformed, err)
	}
	defer catch(&err)
	states, left := ViewStateCoder{Field: f}.Decode(arith.NewDecoder(b))
	if !left.Zero() {
		Log.WithField("tally", left).Debug("view state does not match the mine field")
	}
	return states, nil
}

// EncodeElapsedTime packs ms as plain binary; zero encodes to "".
func EncodeElapsedTime(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return bitset.FromBigInt(big.NewInt(ms)).String()
}

func DecodeElapsedTime(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	b, err := bitset.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: elapsed time: %w", ErrMalformed, err)
	}
	v := b.BigInt()
	if !v.IsInt64() {
		return 0, malformed("elapsed time overflows 64 bits")
	}
	return v.Int64(), nil
}
