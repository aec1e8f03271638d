package render

import (
	"math"

	"prize_wheel/internal/game"
)

// WheelGeometry derives the wheel's center and radius from the surface size
func WheelGeometry(width, height int) (cx, cy, radius float64) {
	w, h := float64(width), float64(height)
	return w / 2, h / 2, math.Min(w, h) * 5 / 12
}

// DrawWheel issues a full redraw of the wheel at rotation. Each segment is a
// wedge with its label on the bisector, rotated so it reads outward-upright.
func DrawWheel(s Surface, cat *game.Catalogue, rotation float64, active bool) {
	width, height := s.Size()
	cx, cy, radius := WheelGeometry(width, height)
	n := cat.Len()
	step := game.SegmentAngle(n)

	s.Clear()
	for i := 0; i < n; i++ {
		start := rotation + float64(i)*step
		end := start + step
		s.FillWedge(cx, cy, radius, start, end, SegmentColor(i, n, active))

		mid := start + step/2
		lr := radius * 0.8
		x := cx + math.Cos(mid)*lr
		y := cy + math.Sin(mid)*lr
		s.DrawLabel(cat.Segment(i).Label, x, y, mid+math.Pi/2, Black)
	}
}
