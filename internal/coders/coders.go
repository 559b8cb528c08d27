// Package coders builds value coders on top of the arithmetic coder. A coder
// writes a value as a series of bits with explicit probabilities and reads
// it back from the same series; it never records the value's length, so
// the decoding side must use an identically configured coder.
package coders

import (
	"math/bits"

	"github.com/vancomm/minesweeper-codec/internal/arith"
	"github.com/vancomm/minesweeper-codec/internal/combin"
)

type Coder[T any] interface {
	Encode(enc *arith.Encoder, v T)
	Decode(dec *arith.Decoder) T
}

// Bool codes a single bit that is false with probability PFalse.
type Bool struct {
	PFalse float64
}

func (c Bool) Encode(enc *arith.Encoder, v bool) {
	enc.EncodeBit(c.PFalse, v)
}

func (c Bool) Decode(dec *arith.Decoder) bool {
	return dec.DecodeBit(c.PFalse)
}

// Fair is a Bool with even odds.
var Fair = Bool{PFalse: 0.5}

// maxWidth bounds BitExtended escalation so that widths fit a uint64.
const maxWidth = 62

// BitExtended codes a non-negative integer without an upper bound. A value
// below 2^Width costs a stop bit and Width uniform bits; anything larger
// costs a continue bit and is coded again, less 2^Width, at Width+1.
type BitExtended struct {
	Width int
}

func (c BitExtended) Encode(enc *arith.Encoder, v int) {
	u := uint64(v)
	w := c.Width
	for ; w < maxWidth; w++ {
		more := u >= 1<<w
		Fair.Encode(enc, more)
		if !more {
			break
		}
		u -= 1 << w
	}
	encodeUniformBits(enc, u, w)
}

func (c BitExtended) Decode(dec *arith.Decoder) int {
	var base uint64
	w := c.Width
	for ; w < maxWidth; w++ {
		if !Fair.Decode(dec) {
			break
		}
		base += 1 << w
	}
	return int(base + decodeUniformBits(dec, w))
}

func encodeUniformBits(enc *arith.Encoder, u uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		Fair.Encode(enc, u&(1<<i) != 0)
	}
}

func decodeUniformBits(dec *arith.Decoder, n int) uint64 {
	var u uint64
	for range n {
		u <<= 1
		if Fair.Decode(dec) {
			u |= 1
		}
	}
	return u
}

// Number codes an integer in [0, N) with every value equally likely. The
// range is halved until one value is left, each step weighted by the size
// of the lower half, so N that is a power of two costs exactly log2(N) bits.
type Number struct {
	N int
}

func (c Number) Encode(enc *arith.Encoder, v int) {
	lo, hi := 0, c.N
	for hi-lo > 1 {
		mid := lo + (hi-lo+1)/2
		upper := v >= mid
		enc.EncodeBit(float64(mid-lo)/float64(hi-lo), upper)
		if upper {
			lo = mid
		} else {
			hi = mid
		}
	}
}

func (c Number) Decode(dec *arith.Decoder) int {
	lo, hi := 0, c.N
	for hi-lo > 1 {
		mid := lo + (hi-lo+1)/2
		if dec.DecodeBit(float64(mid-lo) / float64(hi-lo)) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// FixedCountBits codes a Length-bit sequence known to contain exactly Count
// set bits. Bit by bit it streams the sequence's combinadic rank through the
// coder: the chance of a set bit is the share of remaining completions that
// start with one.
type FixedCountBits struct {
	Length int
	Count  int
}

func (c FixedCountBits) Encode(enc *arith.Encoder, v []bool) {
	n, k := c.Length, c.Count
	for _, bit := range v[:c.Length] {
		enc.EncodeBit(1-combin.SetBitProbability(n, k), bit)
		n--
		if bit {
			k--
		}
	}
}

func (c FixedCountBits) Decode(dec *arith.Decoder) []bool {
	v := make([]bool, c.Length)
	n, k := c.Length, c.Count
	for i := range v {
		v[i] = dec.DecodeBit(1 - combin.SetBitProbability(n, k))
		n--
		if v[i] {
			k--
		}
	}
	return v
}

// Delta codes a value close to Expected by zigzag-mapping its distance from
// Expected onto the non-negative integers (0, -1, 1, -2, 2, ... become 0, 1,
// 2, 3, 4, ...) and handing the result to Inner.
type Delta struct {
	Expected int
	Inner    Coder[int]
}

func (c Delta) Encode(enc *arith.Encoder, v int) {
	c.Inner.Encode(enc, Zigzag(v-c.Expected))
}

func (c Delta) Decode(dec *arith.Decoder) int {
	return c.Expected + Unzigzag(c.Inner.Decode(dec))
}

func Zigzag(d int) int {
	if d >= 0 {
		return 2 * d
	}
	return -2*d - 1
}

func Unzigzag(m int) int {
	if m%2 == 0 {
		return m / 2
	}
	return -(m + 1) / 2
}

// WidthFor returns floor(log2(x)) for x >= 1 and 0 below that.
func WidthFor(x float64) int {
	if x < 2 {
		return 0
	}
	return bits.Len64(uint64(x)) - 1
}
