package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// CellScreen is the part of tcell.Screen the terminal surface draws through
type CellScreen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
	Clear()
}

// Terminal renders onto a character grid. A cell is treated as twice as tall
// as it is wide, so the surface reports double the row count as its height.
type Terminal struct {
	screen CellScreen
	fills  []tcell.Color
	cols   int
	rows   int
}

// NewTerminal wraps a tcell screen
func NewTerminal(screen CellScreen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Size() (int, int) {
	cols, rows := t.screen.Size()
	return cols, rows * 2
}

func (t *Terminal) Clear() {
	t.cols, t.rows = t.screen.Size()
	t.screen.Clear()
	n := t.cols * t.rows
	if cap(t.fills) < n {
		t.fills = make([]tcell.Color, n)
	}
	t.fills = t.fills[:n]
	for i := range t.fills {
		t.fills[i] = tcell.ColorDefault
	}
}

func toTcell(c Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Terminal) FillWedge(cx, cy, radius, start, end float64, fill Color) {
	span := end - start
	bg := toTcell(fill)
	style := tcell.StyleDefault.Background(bg)

	for y := 0; y < t.rows; y++ {
		py := float64(y)*2 + 1
		for x := 0; x < t.cols; x++ {
			px := float64(x) + 0.5
			dx, dy := px-cx, py-cy
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			rel := math.Mod(math.Atan2(dy, dx)-start, 2*math.Pi)
			if rel < 0 {
				rel += 2 * math.Pi
			}
			if rel >= span {
				continue
			}
			t.fills[y*t.cols+x] = bg
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// DrawLabel centers text on (x, y). Terminal cells cannot rotate glyphs, so
// the label is always written horizontally.
func (t *Terminal) DrawLabel(text string, x, y, angle float64, ink Color) {
	runes := []rune(text)
	row := int(y / 2)
	col := int(math.Round(x)) - len(runes)/2
	if row < 0 || row >= t.rows {
		return
	}
	fg := toTcell(ink)
	for i, r := range runes {
		cx := col + i
		if cx < 0 || cx >= t.cols {
			continue
		}
		style := tcell.StyleDefault.Foreground(fg).Background(t.fills[row*t.cols+cx])
		t.screen.SetContent(cx, row, r, nil, style)
	}
}

// Status writes a line of plain text at row, left aligned
func (t *Terminal) Status(row int, text string, style tcell.Style) {
	if row < 0 || row >= t.rows {
		return
	}
	for i, r := range []rune(text) {
		if i >= t.cols {
			return
		}
		t.screen.SetContent(i, row, r, nil, style)
	}
}
