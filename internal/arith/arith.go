// Package arith implements a binary arithmetic coder in which the caller
// supplies the probability of every bit.
//
// The coder keeps a 32-bit interval [low, high]. Each bit splits the
// interval in proportion to the probability of a zero; once the top bits
// of low and high agree they are shifted out. When the interval straddles
// the midpoint without converging it is expanded around the centre and the
// decision is deferred with a pending-bit counter.
package arith

import (
	"errors"
	"fmt"

	"github.com/vancomm/minesweeper-codec/internal/bitset"
)

const (
	precision = 32
	top       = uint64(1)<<precision - 1
	half      = uint64(1) << (precision - 1)
	quarter   = uint64(1) << (precision - 2)
)

// ErrImpossibleBit is raised (as a panic) when a caller encodes a bit it
// declared to have zero probability.
var ErrImpossibleBit = errors.New("encoded a bit with zero probability")

// certain reports whether pZero leaves no choice, and which bit it forces.
func certain(pZero float64) (forced, ok bool) {
	switch {
	case pZero <= 0:
		return true, true
	case pZero >= 1:
		return false, true
	}
	return false, false
}

// split returns the size of the zero sub-range of [low, high]. It is never
// empty and never the whole range, so any probability strictly inside (0,1)
// stays encodable.
func split(low, high uint64, pZero float64) uint64 {
	r := high - low + 1
	z := uint64(float64(r) * pZero)
	return min(max(z, 1), r-1)
}

type Encoder struct {
	low, high uint64
	pending   int
	out       *bitset.BitSet
}

func NewEncoder() *Encoder {
	return &Encoder{high: top, out: bitset.New()}
}

func (e *Encoder) emit(bit bool) {
	e.out.Append(bit)
	for ; e.pending > 0; e.pending-- {
		e.out.Append(!bit)
	}
}

// EncodeBit records bit, where pZero is the probability that the bit is 0.
func (e *Encoder) EncodeBit(pZero float64, bit bool) {
	if forced, ok := certain(pZero); ok {
		if forced != bit {
			panic(fmt.Errorf("%w (p0=%v, bit=%v)", ErrImpossibleBit, pZero, bit))
		}
		return
	}
	z := split(e.low, e.high, pZero)
	if bit {
		e.low += z
	} else {
		e.high = e.low + z - 1
	}
	for {
		switch {
		case e.high < half:
			e.emit(false)
		case e.low >= half:
			e.emit(true)
			e.low -= half
			e.high -= half
		case e.low >= quarter && e.high < 3*quarter:
			e.pending++
			e.low -= quarter
			e.high -= quarter
		default:
			return
		}
		e.low <<= 1
		e.high = e.high<<1 | 1
	}
}

// Flush terminates the stream and returns the encoded bits. It appends the
// fewest bits such that the value they spell, padded with zeros, lies in the
// final interval. The encoder must not be used afterwards.
func (e *Encoder) Flush() *bitset.BitSet {
	first := 0
	if e.pending > 0 {
		// the pending decision must be resolved by at least one real bit
		first = 1
	}
	for k := first; k <= precision; k++ {
		shift := uint(precision - k)
		v := (e.low + (uint64(1)<<shift - 1)) >> shift << shift
		if v > e.high {
			continue
		}
		for i := 0; i < k; i++ {
			bit := v&(uint64(1)<<(precision-1-i)) != 0
			if i == 0 {
				e.emit(bit)
			} else {
				e.out.Append(bit)
			}
		}
		break
	}
	return e.out
}

type Decoder struct {
	low, high uint64
	value     uint64
	in        *bitset.Reader
}

// NewDecoder reads from b. Reads beyond the end of b see zeros, matching
// the padding assumed by [Encoder.Flush].
func NewDecoder(b *bitset.BitSet) *Decoder {
	d := &Decoder{high: top, in: bitset.NewReader(b)}
	for range precision {
		d.value = d.value<<1 | d.next()
	}
	return d
}

func (d *Decoder) next() uint64 {
	if d.in.Next() {
		return 1
	}
	return 0
}

// DecodeBit mirrors [Encoder.EncodeBit].
func (d *Decoder) DecodeBit(pZero float64) bool {
	if forced, ok := certain(pZero); ok {
		return forced
	}
	z := split(d.low, d.high, pZero)
	bit := d.value-d.low >= z
	if bit {
		d.low += z
	} else {
		d.high = d.low + z - 1
	}
	for {
		switch {
		case d.high < half:
		case d.low >= half:
			d.low -= half
			d.high -= half
			d.value -= half
		case d.low >= quarter && d.high < 3*quarter:
			d.low -= quarter
			d.high -= quarter
			d.value -= quarter
		default:
			return bit
		}
		d.low <<= 1
		d.high = d.high<<1 | 1
		d.value = d.value<<1 | d.next()
	}
}
