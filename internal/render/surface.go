package render

// Surface is a 2D drawing target of known size. Angles are radians,
// clockwise from the +x axis in y-down screen coordinates.
type Surface interface {
	Size() (width, height int)
	Clear()
	FillWedge(cx, cy, radius, start, end float64, fill Color)
	DrawLabel(text string, x, y, angle float64, ink Color)
}
