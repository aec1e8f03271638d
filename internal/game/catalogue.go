package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidCatalogue is returned for empty catalogues, negative weights
// or a non-positive total weight
var ErrInvalidCatalogue = errors.New("invalid catalogue")

// Segment represents a single labeled, weighted slice of the wheel
type Segment struct {
	Label  string      `json:"label" yaml:"label"`
	Weight float64     `json:"weight" yaml:"weight"`
	Kind   OutcomeKind `json:"kind" yaml:"kind"`
}

// Catalogue is the immutable ordered list of segments. Order is on-screen position.
type Catalogue struct {
	segments []Segment
	total    float64
}

// DefaultSegments returns the stock prize table
func DefaultSegments() []Segment {
	return []Segment{
		{Label: "1 SOL", Weight: 1, Kind: KindPrize},
		{Label: "2x Tokens", Weight: 25, Kind: KindPrize},
		{Label: "Free Spin", Weight: 25, Kind: KindFreeSpin},
		{Label: "Nothing", Weight: 30, Kind: KindNothing},
		{Label: "10 SOL", Weight: 0.1, Kind: KindPrize},
		{Label: "NFT!", Weight: 8.9, Kind: KindPrize},
		{Label: "Twitter SO", Weight: 5, Kind: KindPrize},
		{Label: "Merch", Weight: 5, Kind: KindPrize},
	}
}

// NewCatalogue validates segments and returns an immutable catalogue
func NewCatalogue(segments []Segment) (*Catalogue, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidCatalogue)
	}

	total := 0.0
	for i, seg := range segments {
		if math.IsNaN(seg.Weight) || math.IsInf(seg.Weight, 0) || seg.Weight < 0 {
			return nil, fmt.Errorf("%w: segment %d (%q) has weight %v", ErrInvalidCatalogue, i, seg.Label, seg.Weight)
		}
		total += seg.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: total weight must be positive", ErrInvalidCatalogue)
	}

	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return &Catalogue{segments: cp, total: total}, nil
}

// DefaultCatalogue returns the catalogue built from DefaultSegments
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(DefaultSegments())
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of segments
func (c *Catalogue) Len() int {
	return len(c.segments)
}

// Total returns the sum of all weights
func (c *Catalogue) Total() float64 {
	return c.total
}

// Segment returns the segment at i
func (c *Catalogue) Segment(i int) Segment {
	return c.segments[i]
}

// Segments returns a copy of the segment list
func (c *Catalogue) Segments() []Segment {
	cp := make([]Segment, len(c.segments))
	copy(cp, c.segments)
	return cp
}

// Outcome returns the resolved outcome for segment i
func (c *Catalogue) Outcome(i int) Outcome {
	seg := c.segments[i]
	return Outcome{Kind: seg.Kind, Label: seg.Label, Index: i}
}

// Shares returns each segment's exact probability weight/total, rounded to places
func (c *Catalogue) Shares(places int32) []decimal.Decimal {
	total := decimal.NewFromFloat(c.total)
	shares := make([]decimal.Decimal, len(c.segments))
	for i, seg := range c.segments {
		shares[i] = decimal.NewFromFloat(seg.Weight).Div(total).Round(places)
	}
	return shares
}
