package bitset

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGet(t *testing.T) {
	b := New()
	pattern := []bool{true, false, false, true, true, false, true}
	for _, bit := range pattern {
		b.Append(bit)
	}
	require.Equal(t, len(pattern), b.Len())
	for i, bit := range pattern {
		assert.Equal(t, bit, b.Get(i), "bit %d", i)
	}
	assert.False(t, b.Get(100))
}

func TestStringRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{0, 1, 7, 8, 9, 63, 64, 65, 200} {
		b := New()
		for range n {
			b.Append(r.IntN(2) == 1)
		}
		s := b.String()
		assert.NotContains(t, s, "=")
		assert.NotContains(t, s, "+")
		assert.NotContains(t, s, "/")

		parsed, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, (n+7)/8*8, parsed.Len())
		for i := range parsed.Len() {
			assert.Equal(t, b.Get(i), parsed.Get(i), "n=%d bit %d", n, i)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not base64!")
	assert.Error(t, err)
}

func TestBigInt(t *testing.T) {
	tests := []struct {
		name  string
		value *big.Int
		bits  int
	}{
		{"zero", big.NewInt(0), 0},
		{"one", big.NewInt(1), 1},
		{"byte", big.NewInt(255), 8},
		{"over 32 bits", big.NewInt(1<<40 + 12345), 41},
		{"huge", new(big.Int).Lsh(big.NewInt(3), 130), 132},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := FromBigInt(test.value)
			assert.Equal(t, test.bits, b.Len())
			assert.Zero(t, test.value.Cmp(b.BigInt()))

			parsed, err := Parse(b.String())
			require.NoError(t, err)
			assert.Zero(t, test.value.Cmp(parsed.BigInt()))
		})
	}
}

func TestReaderPadsWithZeros(t *testing.T) {
	b := New()
	b.Append(true)
	r := NewReader(b)
	assert.True(t, r.Next())
	for range 10 {
		assert.False(t, r.Next())
	}
}
