package mines

import (
	"fmt"
)

type OpenState uint8

const (
	Closed OpenState = iota
	Opened
	Flagged
)

var openStateNames = [...]string{
	Closed:  "closed",
	Opened:  "opened",
	Flagged: "flagged",
}

func (s OpenState) String() string {
	if int(s) < len(openStateNames) {
		return openStateNames[s]
	}
	return fmt.Sprintf("OpenState(%d)", s)
}

// [OpenState] implements [encoding.TextMarshaler]
func (s OpenState) MarshalText() ([]byte, error) {
	if int(s) >= len(openStateNames) {
		return nil, AssertionError{fmt.Sprintf("invalid open state %d", s)}
	}
	return []byte(openStateNames[s]), nil
}

func (s *OpenState) UnmarshalText(b []byte) error {
	for i, name := range openStateNames {
		if string(b) == name {
			*s = OpenState(i)
			return nil
		}
	}
	return AssertionError{fmt.Sprintf("invalid open state %q", b)}
}

type KnownCell struct {
	IsMine    bool      `json:"isMine"`
	OpenState OpenState `json:"openState"`
}

// KnownBoardState is a plain snapshot of a game: the mine layout, what the
// player has opened or flagged, and the elapsed play time.
type KnownBoardState struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Cells  []KnownCell `json:"cells"` // row-major, Width*Height long
	// ElapsedTime is in milliseconds; zero means none was recorded.
	ElapsedTime int64 `json:"elapsedTime,omitempty"`
}

func NewKnownBoardState(width, height int) *KnownBoardState {
	return &KnownBoardState{
		Width:  width,
		Height: height,
		Cells:  make([]KnownCell, width*height),
	}
}

func (s *KnownBoardState) Index(x, y int) int {
	return y*s.Width + x
}

func (s *KnownBoardState) Cell(x, y int) *KnownCell {
	return &s.Cells[s.Index(x, y)]
}

func (s *KnownBoardState) MineCount() int {
	n := 0
	for _, c := range s.Cells {
		if c.IsMine {
			n++
		}
	}
	return n
}

// Untouched reports whether nothing has been opened or flagged yet.
func (s *KnownBoardState) Untouched() bool {
	for _, c := range s.Cells {
		if c.OpenState != Closed {
			return false
		}
	}
	return true
}

// MineField extracts the mine layout.
func (s *KnownBoardState) MineField() *MineField {
	mines := make([]bool, len(s.Cells))
	for i, c := range s.Cells {
		mines[i] = c.IsMine
	}
	return NewMineField(s.Width, s.Height, mines)
}

// EncodedBoardState is the shareable form of a [KnownBoardState]. Each field
// is an independent URL-safe base64 bit stream.
type EncodedBoardState struct {
	BoardID     string `json:"boardId" schema:"board_id,required"`
	ViewState   string `json:"viewState,omitempty" schema:"view_state"`
	ElapsedTime string `json:"elapsedTime,omitempty" schema:"elapsed_time"`
}
