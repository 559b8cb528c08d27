package bitset

import (
	"encoding/base64"
	"fmt"
	"math/big"
)

const wordSize = 64

// BitSet is an append-only sequence of bits. Bit i is stored in word i/64
// at position i%64.
type BitSet struct {
	words []uint64
	n     int
}

func New() *BitSet {
	return &BitSet{}
}

func (b *BitSet) Len() int {
	return b.n
}

func (b *BitSet) Get(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.words[i/wordSize]&(1<<(i%wordSize)) != 0
}

func (b *BitSet) Append(bit bool) {
	if b.n%wordSize == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.n/wordSize] |= 1 << (b.n % wordSize)
	}
	b.n++
}

// Bytes packs the bits LSB first; the final partial byte is zero padded.
func (b *BitSet) Bytes() []byte {
	out := make([]byte, (b.n+7)/8)
	for i := range out {
		out[i] = byte(b.words[i/8] >> ((i % 8) * 8))
	}
	return out
}

func FromBytes(p []byte) *BitSet {
	b := &BitSet{
		words: make([]uint64, (len(p)+7)/8),
		n:     len(p) * 8,
	}
	for i, v := range p {
		b.words[i/8] |= uint64(v) << ((i % 8) * 8)
	}
	return b
}

// String returns the unpadded URL-safe base64 form of the bits.
func (b *BitSet) String() string {
	return base64.RawURLEncoding.EncodeToString(b.Bytes())
}

// Parse is the inverse of [BitSet.String]. The result is a whole number of
// bytes long; trailing padding bits read as zero, which every reader of
// this package treats as equivalent to the end of the stream.
func Parse(s string) (*BitSet, error) {
	p, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed bit string: %w", err)
	}
	return FromBytes(p), nil
}

// BigInt interprets bit i as the coefficient of 2^i.
func (b *BitSet) BigInt() *big.Int {
	be := b.Bytes()
	for i, j := 0, len(be)-1; i < j; i, j = i+1, j-1 {
		be[i], be[j] = be[j], be[i]
	}
	return new(big.Int).SetBytes(be)
}

// FromBigInt returns the shortest bit set whose [BitSet.BigInt] equals v.
// Negative values are not representable.
func FromBigInt(v *big.Int) *BitSet {
	if v.Sign() < 0 {
		panic("bitset: negative value")
	}
	b := New()
	for i := range v.BitLen() {
		b.Append(v.Bit(i) == 1)
	}
	return b
}

// Reader consumes a BitSet front to back.
type Reader struct {
	b   *BitSet
	pos int
}

func NewReader(b *BitSet) *Reader {
	return &Reader{b: b}
}

// Next returns the next bit, or false once the set is exhausted.
func (r *Reader) Next() bool {
	bit := r.b.Get(r.pos)
	r.pos++
	return bit
}
