// Package app ties the drawing surface, its history, the stroke recorder
// and the calculator into one session, and publishes events for the UI.
package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"smartcalc/internal/calc"
	"smartcalc/internal/history"
	calcimage "smartcalc/internal/image"
	"smartcalc/internal/stroke"
	"smartcalc/pkg/geometry"
)

// ErrBusy is returned by canvas operations while a calculation is pending.
var ErrBusy = errors.New("calculation pending")

// EventType identifies different session events.
type EventType int

const (
	EventCanvasChanged EventType = iota
	EventStrokeCommitted
	EventHistoryChanged
	EventModeChanged
	EventCalculationStarted
	EventCalculationDone
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session owns the canvas and everything that mutates it. All methods are
// safe to call from UI callbacks and background goroutines.
type Session struct {
	mu       sync.Mutex
	surface  *stroke.Surface
	history  *history.Store
	recorder *stroke.Recorder
	calc     *calc.Calculator

	pending atomic.Bool

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewSession creates a session with a blank canvas.
func NewSession(cfg Config, calculator *calc.Calculator) *Session {
	return &Session{
		surface:   stroke.NewSurface(cfg.CanvasWidth, cfg.CanvasHeight, cfg.BackgroundColor()),
		history:   history.NewStore(),
		recorder:  stroke.NewRecorder(cfg.RecorderOptions()),
		calc:      calculator,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.lmu.RLock()
	listeners := s.listeners[event]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Pending reports whether a calculation is in flight.
func (s *Session) Pending() bool { return s.pending.Load() }

// Size returns the canvas size in pixels.
func (s *Session) Size() geometry.Size {
	return geometry.NewSize(s.surface.Width(), s.surface.Height())
}

// Image returns a copy of the visible canvas.
func (s *Session) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Snapshot()
}

// mutate runs fn under the lock unless a calculation is pending.
func (s *Session) mutate(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.Load() {
		return ErrBusy
	}
	fn()
	return nil
}

// StartStroke begins a stroke at p (canvas pixels).
func (s *Session) StartStroke(p geometry.Point2D) error {
	return s.mutate(func() { s.recorder.Start(s.surface, p) })
}

// MoveStroke extends the current stroke to p.
func (s *Session) MoveStroke(p geometry.Point2D) error {
	err := s.mutate(func() { s.recorder.Move(s.surface, p) })
	if err == nil {
		s.Emit(EventCanvasChanged, nil)
	}
	return err
}

// EndStroke finishes the stroke and commits it to history.
func (s *Session) EndStroke() error {
	var committed bool
	err := s.mutate(func() { committed = s.recorder.End(s.surface, s.history) })
	if err == nil && committed {
		s.Emit(EventStrokeCommitted, s.history.Cursor())
		s.Emit(EventHistoryChanged, nil)
		s.Emit(EventCanvasChanged, nil)
	}
	return err
}

// Undo steps back one snapshot, clearing the canvas past the first one.
func (s *Session) Undo() error {
	return s.step(s.history.StepBackward)
}

// Redo steps forward one snapshot.
func (s *Session) Redo() error {
	return s.step(s.history.StepForward)
}

func (s *Session) step(move func() bool) error {
	var moved bool
	var restoreErr error
	err := s.mutate(func() {
		if moved = move(); !moved {
			return
		}
		if snap, ok := s.history.Current(); ok {
			restoreErr = s.surface.Restore(snap)
		} else {
			s.surface.Clear()
		}
	})
	if err != nil {
		return err
	}
	if restoreErr != nil {
		return restoreErr
	}
	if moved {
		s.Emit(EventHistoryChanged, nil)
		s.Emit(EventCanvasChanged, nil)
	}
	return nil
}

// Clear wipes the canvas and records the blank state as an undoable step.
func (s *Session) Clear() error {
	err := s.mutate(func() {
		s.surface.Clear()
		s.history.Commit(s.surface.Image())
	})
	if err == nil {
		s.Emit(EventHistoryChanged, nil)
		s.Emit(EventCanvasChanged, nil)
	}
	return err
}

// CanUndo reports whether Undo would change the canvas.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the canvas.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Cursor returns the history cursor, -1 for the empty canvas.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Cursor()
}

// ToggleEraser switches between pen and eraser.
func (s *Session) ToggleEraser() stroke.Mode {
	s.mu.Lock()
	mode := s.recorder.ToggleEraser()
	s.mu.Unlock()
	s.Emit(EventModeChanged, mode)
	return mode
}

// Mode returns the active tool.
func (s *Session) Mode() stroke.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.Mode()
}

// SetColor sets the pen color.
func (s *Session) SetColor(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder.SetColor(c)
}

// PenColor returns the pen color.
func (s *Session) PenColor() color.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.PenColor()
}

// SetWidth sets the width of the active tool.
func (s *Session) SetWidth(w float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder.SetWidth(w)
}

// Width returns the width of the active tool.
func (s *Session) Width() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.Width()
}

// Widths returns the pen and eraser widths.
func (s *Session) Widths() (pen, eraser float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.PenWidth(), s.recorder.EraserWidth()
}

// Calculate evaluates the visible snapshot. The canvas is frozen until it
// returns. A second call while one is pending returns ErrBusy.
func (s *Session) Calculate(ctx context.Context) (calc.Outcome, error) {
	s.mu.Lock()
	if !s.pending.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return calc.Outcome{}, ErrBusy
	}
	snap, ok := s.history.Current()
	if !ok {
		snap = image.NewRGBA(image.Rect(0, 0, s.surface.Width(), s.surface.Height()))
		calcimage.Fill(snap, s.surface.Background())
	}
	s.mu.Unlock()

	s.Emit(EventCalculationStarted, nil)
	out, err := func() (calc.Outcome, error) {
		defer s.pending.Store(false)
		return s.calc.Calculate(ctx, snap)
	}()
	if err != nil {
		if errors.Is(err, calc.ErrBusy) {
			return calc.Outcome{}, ErrBusy
		}
		return calc.Outcome{}, err
	}
	s.Emit(EventCalculationDone, out)
	return out, nil
}
