package stroke

import (
	"image"
	"image/color"

	"smartcalc/pkg/geometry"
)

// Width limits for pen and eraser.
const (
	MinWidth = 1
	MaxWidth = 100
)

// State is the recorder state.
type State int

const (
	StateIdle State = iota
	StateDrawing
)

func (s State) String() string {
	if s == StateDrawing {
		return "Drawing"
	}
	return "Idle"
}

// Mode selects pen or eraser.
type Mode int

const (
	ModePen Mode = iota
	ModeEraser
)

func (m Mode) String() string {
	if m == ModeEraser {
		return "Eraser"
	}
	return "Pen"
}

// Committer receives the raster when a stroke completes.
type Committer interface {
	Commit(snapshot *image.RGBA)
}

// Options configures a Recorder.
type Options struct {
	PenColor    color.Color
	PenWidth    float64
	EraserWidth float64
}

// DefaultOptions matches the stock canvas: black pen 5px, eraser 20px.
func DefaultOptions() Options {
	return Options{
		PenColor:    color.RGBA{A: 255},
		PenWidth:    5,
		EraserWidth: 20,
	}
}

// Recorder is a two-state machine (Idle, Drawing) driven by pointer
// events. It only touches history through Committer.Commit at stroke end.
type Recorder struct {
	state       State
	mode        Mode
	penColor    color.Color
	penWidth    float64
	eraserWidth float64
}

// NewRecorder creates an idle recorder in pen mode.
func NewRecorder(opts Options) *Recorder {
	if opts.PenColor == nil {
		opts.PenColor = DefaultOptions().PenColor
	}
	return &Recorder{
		penColor:    opts.PenColor,
		penWidth:    clampWidth(opts.PenWidth),
		eraserWidth: clampWidth(opts.EraserWidth),
	}
}

func clampWidth(w float64) float64 {
	return min(max(w, MinWidth), MaxWidth)
}

// State returns the current state.
func (r *Recorder) State() State { return r.state }

// Mode returns the current mode.
func (r *Recorder) Mode() Mode { return r.mode }

// PenColor returns the pen color.
func (r *Recorder) PenColor() color.Color { return r.penColor }

// PenWidth returns the pen width.
func (r *Recorder) PenWidth() float64 { return r.penWidth }

// EraserWidth returns the eraser width.
func (r *Recorder) EraserWidth() float64 { return r.eraserWidth }

// Active returns the color and width the next movement paints with:
// the pen pair, or the surface background and eraser width.
func (r *Recorder) Active(s *Surface) (color.Color, float64) {
	if r.mode == ModeEraser {
		return s.Background(), r.eraserWidth
	}
	return r.penColor, r.penWidth
}

// Width returns the width of the active mode.
func (r *Recorder) Width() float64 {
	if r.mode == ModeEraser {
		return r.eraserWidth
	}
	return r.penWidth
}

// Start begins a stroke at p. A Start while already drawing restarts the
// path without committing.
func (r *Recorder) Start(s *Surface, p geometry.Point2D) {
	s.beginPath(p)
	r.state = StateDrawing
}

// Move handles pointer movement. It is ignored while idle.
func (r *Recorder) Move(s *Surface, p geometry.Point2D) {
	if r.state != StateDrawing {
		return
	}
	if r.mode == ModeEraser {
		s.EraseSquare(p, r.eraserWidth)
		return
	}
	c, w := r.Active(s)
	s.extendPath(p, c, w)
}

// End finishes the stroke and commits the raster. It reports whether a
// snapshot was committed; ending while idle does nothing.
func (r *Recorder) End(s *Surface, history Committer) bool {
	if r.state != StateDrawing {
		return false
	}
	s.closePath()
	r.state = StateIdle
	history.Commit(s.Image())
	return true
}

// ToggleEraser switches between pen and eraser.
func (r *Recorder) ToggleEraser() Mode {
	if r.mode == ModePen {
		r.mode = ModeEraser
	} else {
		r.mode = ModePen
	}
	return r.mode
}

// SetMode selects pen or eraser directly.
func (r *Recorder) SetMode(m Mode) { r.mode = m }

// SetColor sets the pen color. In eraser mode it takes effect once the pen
// is selected again.
func (r *Recorder) SetColor(c color.Color) {
	if c != nil {
		r.penColor = c
	}
}

// SetWidth sets the width of the active mode, clamped to MinWidth..MaxWidth.
func (r *Recorder) SetWidth(w float64) {
	w = clampWidth(w)
	if r.mode == ModeEraser {
		r.eraserWidth = w
	} else {
		r.penWidth = w
	}
}
