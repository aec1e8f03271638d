package game

import (
	"crypto/rand"
	"math/big"
)

// RandomSource yields uniform floats in [0, 1)
type RandomSource interface {
	Float64() float64
}

// CryptoSource draws from crypto/rand with 53 bits of precision
type CryptoSource struct{}

var float53 = big.NewInt(1 << 53)

func (CryptoSource) Float64() float64 {
	n, err := rand.Int(rand.Reader, float53)
	if err != nil {
		// entropy failure: land in the middle rather than bias toward 0
		return 0.5
	}
	return float64(n.Int64()) / float64(1<<53)
}

// FixedSource always returns the same draw. Useful for replays and tests.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }

// Select picks a segment index with probability weight/total
func (c *Catalogue) Select(src RandomSource) int {
	return c.SelectAt(src.Float64() * c.total)
}

// SelectAt inverts the cumulative weights at r in [0, total). A draw that
// lands exactly on a boundary belongs to the earlier segment. Zero-weight
// segments are never chosen.
func (c *Catalogue) SelectAt(r float64) int {
	last := -1
	for i, seg := range c.segments {
		if seg.Weight <= 0 {
			continue
		}
		last = i
		r -= seg.Weight
		if r <= 0 {
			return i
		}
	}
	// floating-point drift past the final boundary
	return last
}
