package game

import "math"

const (
	// PointerAngle is the fixed screen angle of the pointer: straight up in
	// y-down canvas coordinates
	PointerAngle = 3 * math.Pi / 2

	// DefaultExtraTurns is the number of full revolutions added to every spin
	DefaultExtraTurns = 5

	fullTurn = 2 * math.Pi
)

// Plan is the result of planning a spin
type Plan struct {
	Target float64 // absolute orientation at rest
	Delta  float64 // forward distance from the current orientation, always > 0
}

// normAngle maps a into [0, 2π)
func normAngle(a float64) float64 {
	a = math.Mod(a, fullTurn)
	if a < 0 {
		a += fullTurn
	}
	if a >= fullTurn {
		a = 0
	}
	return a
}

// SegmentAngle returns the angular size of one of count segments
func SegmentAngle(count int) float64 {
	return fullTurn / float64(count)
}

// RestingAngle returns the orientation in [0, 2π) at which the center of
// segment index sits under the pointer
func RestingAngle(index, count int) float64 {
	return normAngle(PointerAngle - (float64(index)+0.5)*SegmentAngle(count))
}

// PlanRotation computes where the wheel must stop for segment index to land
// under the pointer. The wheel only moves forward; extraTurns whole
// revolutions are added for effect and never change the landing segment.
func PlanRotation(current float64, index, count, extraTurns int) Plan {
	if extraTurns < 0 {
		extraTurns = 0
	}

	forward := normAngle(RestingAngle(index, count) - normAngle(current))
	delta := forward + float64(extraTurns)*fullTurn
	if delta <= 0 {
		delta = fullTurn
	}

	return Plan{Target: current + delta, Delta: delta}
}

// SegmentUnderPointer returns the index of the segment the pointer rests on
// for a given orientation
func SegmentUnderPointer(orientation float64, count int) int {
	local := normAngle(PointerAngle - orientation)
	idx := int(local / SegmentAngle(count))
	if idx >= count {
		idx = count - 1
	}
	return idx
}
