package game

import (
	"math"
	"math/rand/v2"
	"testing"
)

type seededSource struct{ r *rand.Rand }

func (s seededSource) Float64() float64 { return s.r.Float64() }

func TestSelectAtBoundary(t *testing.T) {
	c, err := NewCatalogue([]Segment{{Label: "A", Weight: 1}, {Label: "B", Weight: 1}})
	if err != nil {
		t.Fatalf("NewCatalogue: %v", err)
	}

	half := 0.5 * c.Total()
	if got := c.SelectAt(half); got != 0 {
		t.Fatalf("SelectAt(boundary) = %d; want 0", got)
	}
	if got := c.SelectAt(math.Nextafter(half, math.Inf(1))); got != 1 {
		t.Fatalf("SelectAt(just above boundary) = %d; want 1", got)
	}
	if got := c.Select(FixedSource(0.5)); got != 0 {
		t.Fatalf("Select(0.5) = %d; want 0", got)
	}
}

func TestSelectAtFallsBackToLast(t *testing.T) {
	c, _ := NewCatalogue([]Segment{{Label: "A", Weight: 1}, {Label: "B", Weight: 1}, {Label: "C", Weight: 1}})

	if got := c.SelectAt(c.Total() + 1e-9); got != 2 {
		t.Fatalf("SelectAt past total = %d; want 2", got)
	}
}

func TestSelectSkipsZeroWeight(t *testing.T) {
	c, _ := NewCatalogue([]Segment{{Label: "Z", Weight: 0}, {Label: "A", Weight: 1}, {Label: "Y", Weight: 0}})

	for _, r := range []float64{0, 0.5, 1, 1.5} {
		if got := c.SelectAt(r); got != 1 {
			t.Fatalf("SelectAt(%v) = %d; want 1", r, got)
		}
	}
}

func TestSelectConvergesToWeights(t *testing.T) {
	c := DefaultCatalogue()
	src := seededSource{rand.New(rand.NewPCG(42, 7))}

	const trials = 400000
	counts := make([]int, c.Len())
	for i := 0; i < trials; i++ {
		counts[c.Select(src)]++
	}

	for i, seg := range c.Segments() {
		p := seg.Weight / c.Total()
		got := float64(counts[i]) / trials
		// five standard deviations
		tol := 5 * math.Sqrt(p*(1-p)/trials)
		if math.Abs(got-p) > tol+1e-4 {
			t.Errorf("segment %q: frequency %.5f, want %.5f ± %.5f", seg.Label, got, p, tol)
		}
	}
}

func TestCryptoSourceRange(t *testing.T) {
	var src CryptoSource
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("CryptoSource.Float64() = %v out of [0,1)", v)
		}
	}
}
