package render

// Command is one recorded draw call, serialisable for remote canvases
type Command struct {
	Op     string  `json:"op"`
	CX     float64 `json:"cx,omitempty"`
	CY     float64 `json:"cy,omitempty"`
	Radius float64 `json:"r,omitempty"`
	Start  float64 `json:"start,omitempty"`
	End    float64 `json:"end,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Angle  float64 `json:"angle,omitempty"`
	Text   string  `json:"text,omitempty"`
	Color  *Color  `json:"color,omitempty"`
}

const (
	OpClear = "clear"
	OpWedge = "wedge"
	OpLabel = "label"
)

// Recorder is a Surface that records commands instead of drawing. Clear
// starts a new frame.
type Recorder struct {
	width, height int
	commands      []Command
}

// NewRecorder creates a recorder for a width x height canvas
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Clear() {
	r.commands = append(r.commands[:0], Command{Op: OpClear})
}

func (r *Recorder) FillWedge(cx, cy, radius, start, end float64, fill Color) {
	c := fill
	r.commands = append(r.commands, Command{Op: OpWedge, CX: cx, CY: cy, Radius: radius, Start: start, End: end, Color: &c})
}

func (r *Recorder) DrawLabel(text string, x, y, angle float64, ink Color) {
	c := ink
	r.commands = append(r.commands, Command{Op: OpLabel, X: x, Y: y, Angle: angle, Text: text, Color: &c})
}

// Commands returns a copy of the current frame's commands
func (r *Recorder) Commands() []Command {
	cp := make([]Command, len(r.commands))
	copy(cp, r.commands)
	return cp
}
