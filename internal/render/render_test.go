package render

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"

	"prize_wheel/internal/game"
)

func TestHSL(t *testing.T) {
	cases := []struct {
		h, s, l float64
		want    Color
	}{
		{0, 1, 0.5, Color{255, 0, 0}},
		{120, 1, 0.5, Color{0, 255, 0}},
		{240, 1, 0.5, Color{0, 0, 255}},
		{0, 1, 0.6, Color{255, 51, 51}},
		{0, 0, 0.8, Color{204, 204, 204}},
	}
	for _, tc := range cases {
		if got := HSL(tc.h, tc.s, tc.l); got != tc.want {
			t.Fatalf("HSL(%v,%v,%v) = %v; want %v", tc.h, tc.s, tc.l, got, tc.want)
		}
	}
}

func TestSegmentColorGrayWhenClosed(t *testing.T) {
	if got := SegmentColor(3, 8, false); got != Inactive {
		t.Fatalf("closed gate color = %v; want %v", got, Inactive)
	}
	if got := SegmentColor(0, 8, true).Hex(); got != "#ff3333" {
		t.Fatalf("segment 0 color = %s; want #ff3333", got)
	}
}

func TestDrawWheelRecordsFullFrame(t *testing.T) {
	cat := game.DefaultCatalogue()
	rec := NewRecorder(600, 600)

	DrawWheel(rec, cat, 0.25, true)
	DrawWheel(rec, cat, 0.5, true)

	cmds := rec.Commands()
	if len(cmds) != 1+2*cat.Len() {
		t.Fatalf("got %d commands; want %d", len(cmds), 1+2*cat.Len())
	}
	if cmds[0].Op != OpClear {
		t.Fatalf("frame must start with clear, got %s", cmds[0].Op)
	}

	step := 2 * math.Pi / float64(cat.Len())
	for i := 0; i < cat.Len(); i++ {
		wedge := cmds[1+2*i]
		label := cmds[2+2*i]
		if wedge.Op != OpWedge || label.Op != OpLabel {
			t.Fatalf("segment %d: ops %s,%s", i, wedge.Op, label.Op)
		}
		if wedge.Radius != 250 || wedge.CX != 300 || wedge.CY != 300 {
			t.Fatalf("segment %d: geometry %+v", i, wedge)
		}
		if math.Abs(wedge.Start-(0.5+float64(i)*step)) > 1e-12 {
			t.Fatalf("segment %d: start %v", i, wedge.Start)
		}
		if label.Text != cat.Segment(i).Label {
			t.Fatalf("segment %d: label %q", i, label.Text)
		}
		mid := wedge.Start + step/2
		if math.Abs(label.Angle-(mid+math.Pi/2)) > 1e-12 {
			t.Fatalf("segment %d: label angle %v", i, label.Angle)
		}
	}
}

func TestDrawWheelInactive(t *testing.T) {
	rec := NewRecorder(400, 300)
	DrawWheel(rec, game.DefaultCatalogue(), 0, false)

	for _, c := range rec.Commands() {
		if c.Op == OpWedge && *c.Color != Inactive {
			t.Fatalf("wedge color %v with closed gate", *c.Color)
		}
	}
}

type fakeScreen struct {
	w, h  int
	cells map[[2]int]rune
	bg    map[[2]int]tcell.Style
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{w: w, h: h, cells: map[[2]int]rune{}, bg: map[[2]int]tcell.Style{}}
}

func (f *fakeScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = primary
	f.bg[[2]int{x, y}] = style
}

func (f *fakeScreen) Size() (int, int) { return f.w, f.h }

func (f *fakeScreen) Clear() {
	f.cells = map[[2]int]rune{}
	f.bg = map[[2]int]tcell.Style{}
}

func TestTerminalSurface(t *testing.T) {
	screen := newFakeScreen(80, 40)
	term := NewTerminal(screen)

	w, h := term.Size()
	if w != 80 || h != 80 {
		t.Fatalf("Size = %d,%d; want 80,80", w, h)
	}

	// a single segment fills the whole disc
	cat, _ := game.NewCatalogue([]game.Segment{{Label: "ALL", Weight: 1}})
	DrawWheel(term, cat, 0, true)

	center := [2]int{40, 20}
	if _, ok := screen.bg[center]; !ok {
		t.Fatalf("center cell not painted")
	}
	if _, ok := screen.bg[[2]int{0, 0}]; ok {
		t.Fatalf("corner cell painted outside the disc")
	}

	// label written somewhere on screen
	found := false
	for _, r := range screen.cells {
		if r == 'A' {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("label not written")
	}
}
