package combin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want int64
	}{
		{0, 0, 1},
		{5, 0, 1},
		{5, 5, 1},
		{5, 2, 10},
		{10, 3, 120},
		{52, 5, 2598960},
		{4, 5, 0},
		{4, -1, 0},
		{-1, 0, 0},
	}
	for _, test := range tests {
		have := Binomial(test.n, test.k)
		assert.Zero(t, big.NewInt(test.want).Cmp(have),
			"C(%d, %d): have %s, want %d", test.n, test.k, have, test.want)
	}

	// C(480, 99) is far beyond 64 bits
	assert.Greater(t, Binomial(480, 99).BitLen(), 300)
}

func TestSetBitProbabilityMatchesBinomialRatio(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for k := 0; k <= n; k++ {
			num := new(big.Float).SetInt(Binomial(n-1, k-1))
			den := new(big.Float).SetInt(Binomial(n, k))
			want, _ := new(big.Float).Quo(num, den).Float64()
			assert.InDelta(t, want, SetBitProbability(n, k), 1e-12, "n=%d k=%d", n, k)
		}
	}
	assert.Equal(t, 0.0, SetBitProbability(0, 0))
	assert.Equal(t, 1.0, SetBitProbability(3, 3))
}

func TestLexicalOrderingIsBijection(t *testing.T) {
	for length := 0; length <= 8; length++ {
		for count := 0; count <= length; count++ {
			o := LexicalOrdering{Length: length, Count: count}
			size := o.Size().Int64()
			var prev []bool
			for r := range size {
				bits, err := o.Unrank(big.NewInt(r))
				require.NoError(t, err)

				ones := 0
				for _, b := range bits {
					if b {
						ones++
					}
				}
				require.Equal(t, count, ones)

				rank, err := o.Rank(bits)
				require.NoError(t, err)
				require.Equal(t, r, rank.Int64(), "length=%d count=%d", length, count)

				if prev != nil {
					assert.True(t, lexLess(prev, bits), "%v !< %v", prev, bits)
				}
				prev = bits
			}
		}
	}
}

func lexLess(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return !a[i]
		}
	}
	return false
}

func TestLexicalOrderingErrors(t *testing.T) {
	o := LexicalOrdering{Length: 4, Count: 2}

	_, err := o.Rank([]bool{true, false, false})
	assert.Error(t, err)

	_, err = o.Rank([]bool{true, true, true, false})
	assert.Error(t, err)

	_, err = o.Rank([]bool{true, false, false, false})
	assert.Error(t, err)

	_, err = o.Unrank(big.NewInt(6))
	assert.Error(t, err)

	_, err = o.Unrank(big.NewInt(-1))
	assert.Error(t, err)
}

func TestLexicalOrderingLargeBoard(t *testing.T) {
	o := LexicalOrdering{Length: 30 * 16, Count: 99}
	bits := make([]bool, o.Length)
	for i := 0; i < o.Count; i++ {
		bits[(i*37)%o.Length] = true
	}
	rank, err := o.Rank(bits)
	require.NoError(t, err)
	assert.Less(t, rank.Cmp(o.Size()), 0)

	back, err := o.Unrank(rank)
	require.NoError(t, err)
	assert.Equal(t, bits, back)
}
