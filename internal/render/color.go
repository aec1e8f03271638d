package render

import (
	"fmt"
	"math"
)

// Color is an opaque RGB color
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

var (
	Inactive = Color{0xcc, 0xcc, 0xcc}
	Black    = Color{0, 0, 0}
)

// HSL converts hue in degrees, saturation and lightness in [0,1] to RGB
func HSL(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Color{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
	}
}

// SegmentColor returns the fill of segment i out of n. Closed gates gray the wheel out.
func SegmentColor(i, n int, active bool) Color {
	if !active {
		return Inactive
	}
	return HSL(float64(i)*360/float64(n), 1, 0.6)
}
