// Package combin provides exact binomial coefficients and the combinadic
// bijection between integer ranks and fixed-weight bit strings.
package combin

import (
	"fmt"
	"math/big"
)

// Binomial returns C(n, k); it is zero outside 0 <= k <= n.
func Binomial(n, k int) *big.Int {
	if n < 0 || k < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// step advances c = C(m, need) to the count for the next position, which is
// C(m-1, need-1) after a set bit and C(m-1, need) after an unset one.
func step(c *big.Int, m, need int, set bool) {
	if m == 0 {
		return
	}
	if set {
		c.Mul(c, big.NewInt(int64(need)))
	} else {
		c.Mul(c, big.NewInt(int64(m-need)))
	}
	c.Quo(c, big.NewInt(int64(m)))
}

// SetBitProbability is the chance that the first bit of a uniformly chosen
// n-bit string with k set bits is set: C(n-1, k-1) / C(n, k), which reduces
// exactly to k/n.
func SetBitProbability(n, k int) float64 {
	if n <= 0 || k <= 0 {
		return 0
	}
	if k >= n {
		return 1
	}
	return float64(k) / float64(n)
}

// LexicalOrdering enumerates Length-bit strings with exactly Count set bits
// in lexicographic order, bit 0 first and an unset bit ordering before a set
// one.
type LexicalOrdering struct {
	Length int
	Count  int
}

// Size is the number of strings in the ordering.
func (o LexicalOrdering) Size() *big.Int {
	return Binomial(o.Length, o.Count)
}

// Rank returns the position of bits within the ordering.
func (o LexicalOrdering) Rank(bits []bool) (*big.Int, error) {
	if len(bits) != o.Length {
		return nil, fmt.Errorf("have %d bits, want %d", len(bits), o.Length)
	}
	rank := new(big.Int)
	need := o.Count
	// c counts the strings that share the current prefix and have a zero at i
	c := Binomial(o.Length-1, need)
	for i, bit := range bits {
		m := o.Length - i - 1
		if bit {
			if need == 0 {
				return nil, fmt.Errorf("more than %d set bits", o.Count)
			}
			rank.Add(rank, c)
			step(c, m, need, true)
			need--
		} else {
			step(c, m, need, false)
		}
	}
	if need != 0 {
		return nil, fmt.Errorf("have %d set bits, want %d", o.Count-need, o.Count)
	}
	return rank, nil
}

// Unrank is the inverse of [LexicalOrdering.Rank].
func (o LexicalOrdering) Unrank(rank *big.Int) ([]bool, error) {
	if rank.Sign() < 0 || rank.Cmp(o.Size()) >= 0 {
		return nil, fmt.Errorf("rank %s out of range", rank)
	}
	bits := make([]bool, o.Length)
	rem := new(big.Int).Set(rank)
	need := o.Count
	c := Binomial(o.Length-1, need)
	for i := range bits {
		if need == 0 {
			break
		}
		m := o.Length - i - 1
		if rem.Cmp(c) >= 0 {
			bits[i] = true
			rem.Sub(rem, c)
			step(c, m, need, true)
			need--
		} else {
			step(c, m, need, false)
		}
	}
	return bits, nil
}
