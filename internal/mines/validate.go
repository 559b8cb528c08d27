package mines

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vancomm/minesweeper-codec/internal/bitset"
)

// MaxCells bounds the boards accepted at the API boundary.
const MaxCells = 1 << 20

// ValidateKnownBoardState checks the structural shape of a snapshot. It
// does not check that the snapshot is reachable through legal play.
func ValidateKnownBoardState(s *KnownBoardState) error {
	if s == nil {
		return assertf("board state is missing")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return assertf("board dimensions must be positive, have %dx%d", s.Width, s.Height)
	}
	if s.Width > MaxCells/s.Height {
		return assertf("board %dx%d exceeds %d cells", s.Width, s.Height, MaxCells)
	}
	if len(s.Cells) != s.Width*s.Height {
		return assertf("have %d cells, want %d for a %dx%d board",
			len(s.Cells), s.Width*s.Height, s.Width, s.Height)
	}
	for i, c := range s.Cells {
		if c.OpenState > Flagged {
			return assertf("cell %d has invalid open state %d", i, c.OpenState)
		}
	}
	if s.ElapsedTime < 0 {
		return assertf("elapsed time must not be negative, have %d", s.ElapsedTime)
	}
	return nil
}

// ValidateEncodedBoardState checks that every present field is well formed
// base64. A well formed record can still decode to a meaningless board.
func ValidateEncodedBoardState(e *EncodedBoardState) error {
	if e == nil {
		return assertf("encoded board state is missing")
	}
	if e.BoardID == "" {
		return assertf("board id is required")
	}
	fields := []struct{ name, value string }{
		{"board id", e.BoardID},
		{"view state", e.ViewState},
		{"elapsed time", e.ElapsedTime},
	}
	for _, f := range fields {
		if _, err := bitset.Parse(f.value); err != nil {
			return assertf("%s: %s", f.name, err)
		}
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}

// ParseKnownBoardState decodes and validates a JSON snapshot.
func ParseKnownBoardState(data []byte) (*KnownBoardState, error) {
	var s KnownBoardState
	if err := decodeStrict(data, &s); err != nil {
		return nil, err
	}
	if err := ValidateKnownBoardState(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseEncodedBoardState decodes and validates a JSON encoded record.
func ParseEncodedBoardState(data []byte) (*EncodedBoardState, error) {
	var e EncodedBoardState
	if err := decodeStrict(data, &e); err != nil {
		return nil, err
	}
	if err := ValidateEncodedBoardState(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
