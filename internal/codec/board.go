package codec

import (
	"math"

	"github.com/vancomm/minesweeper-codec/internal/arith"
	"github.com/vancomm/minesweeper-codec/internal/coders"
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

type Dimensions struct {
	Width, Height int
}

func (d Dimensions) Cells() int {
	return d.Width * d.Height
}

// presets are the standard boards in the order of their 2-bit codes. Code 0
// marks a custom size.
var presets = [...]mines.GameParams{
	{},
	mines.Beginner,
	mines.Intermediate,
	mines.Expert,
}

func presetCode(d Dimensions) int {
	for code, p := range presets[1:] {
		if p.Width == d.Width && p.Height == d.Height {
			return code + 1
		}
	}
	return 0
}

// DimensionCoder writes a standard size as its 2-bit preset code and any
// other size as code 0, height-1 and the width's offset from the height.
type DimensionCoder struct{}

var (
	presetCoder = coders.Number{N: len(presets)}
	heightCoder = coders.BitExtended{Width: 4}
	widthCoder  = coders.BitExtended{Width: 3}
)

func (DimensionCoder) Encode(enc *arith.Encoder, d Dimensions) {
	code := presetCode(d)
	presetCoder.Encode(enc, code)
	if code != 0 {
		return
	}
	heightCoder.Encode(enc, d.Height-1)
	coders.Delta{Expected: d.Height, Inner: widthCoder}.Encode(enc, d.Width)
}

func (DimensionCoder) Decode(dec *arith.Decoder) Dimensions {
	if code := presetCoder.Decode(dec); code != 0 {
		return Dimensions{Width: presets[code].Width, Height: presets[code].Height}
	}
	height := heightCoder.Decode(dec) + 1
	width := coders.Delta{Expected: height, Inner: widthCoder}.Decode(dec)
	return Dimensions{Width: width, Height: height}
}

// MineCountCoder writes the number of mines on a board of known size. On a
// standard board the canonical count costs a single bit.
type MineCountCoder struct {
	Dimensions
}

func (c MineCountCoder) expected() (count int, canonical bool) {
	if code := presetCode(c.Dimensions); code != 0 {
		return presets[code].MineCount, true
	}
	return int(math.Round(float64(c.Cells()) / 5)), false
}

func (c MineCountCoder) custom(expected int) coders.Delta {
	return coders.Delta{
		Expected: expected,
		Inner:    coders.BitExtended{Width: coders.WidthFor(float64(c.Cells()) / 20)},
	}
}

func (c MineCountCoder) Encode(enc *arith.Encoder, count int) {
	expected, canonical := c.expected()
	if canonical {
		isCustom := count != expected
		coders.Fair.Encode(enc, isCustom)
		if !isCustom {
			return
		}
	}
	c.custom(expected).Encode(enc, count)
}

func (c MineCountCoder) Decode(dec *arith.Decoder) int {
	expected, canonical := c.expected()
	if canonical && !coders.Fair.Decode(dec) {
		return expected
	}
	return c.custom(expected).Decode(dec)
}

// MineMapCoder writes which cells hold mines: the mine count, then the
// row-major sequence of safe cells as a fixed-weight bit string.
type MineMapCoder struct {
	Dimensions
}

func (c MineMapCoder) Encode(enc *arith.Encoder, layout []bool) {
	safe := make([]bool, len(layout))
	mineCount := 0
	for i, mine := range layout {
		safe[i] = !mine
		if mine {
			mineCount++
		}
	}
	MineCountCoder(c).Encode(enc, mineCount)
	coders.FixedCountBits{Length: c.Cells(), Count: c.Cells() - mineCount}.Encode(enc, safe)
}

func (c MineMapCoder) Decode(dec *arith.Decoder) []bool {
	mineCount := MineCountCoder(c).Decode(dec)
	if mineCount < 0 || mineCount > c.Cells() {
		panic(malformed("%d mines do not fit %d cells", mineCount, c.Cells()))
	}
	layout := coders.FixedCountBits{Length: c.Cells(), Count: c.Cells() - mineCount}.Decode(dec)
	for i := range layout {
		layout[i] = !layout[i]
	}
	return layout
}

// BoardCoder writes a whole mine field: its dimensions, then its mine map.
type BoardCoder struct{}

func (BoardCoder) Encode(enc *arith.Encoder, f *mines.MineField) {
	d := Dimensions{Width: f.Width, Height: f.Height}
	DimensionCoder{}.Encode(enc, d)
	MineMapCoder{d}.Encode(enc, f.Mines())
}

func (BoardCoder) Decode(dec *arith.Decoder) *mines.MineField {
	d := DimensionCoder{}.Decode(dec)
	if d.Width <= 0 || d.Height <= 0 || d.Width > mines.MaxCells/d.Height {
		panic(malformed("unsupported board size %dx%d", d.Width, d.Height))
	}
	return mines.NewMineField(d.Width, d.Height, MineMapCoder{d}.Decode(dec))
}
