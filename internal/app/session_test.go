package app

import (
	"context"
	"image"
	"testing"

	"smartcalc/internal/calc"
	"smartcalc/internal/ocr"
	"smartcalc/internal/stroke"
	"smartcalc/pkg/colorutil"
	"smartcalc/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CanvasWidth = 60
	cfg.CanvasHeight = 30
	return cfg
}

func drawLine(t *testing.T, s *Session, y float64) {
	t.Helper()
	require.NoError(t, s.StartStroke(geometry.NewPoint2D(5, y)))
	require.NoError(t, s.MoveStroke(geometry.NewPoint2D(55, y)))
	require.NoError(t, s.EndStroke())
}

func isBlank(img *image.RGBA) bool {
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.RGBAAt(x, y) != colorutil.White {
				return false
			}
		}
	}
	return true
}

func TestUndoToEmptyClearsCanvas(t *testing.T) {
	s := NewSession(testConfig(), calc.New(ocr.Static("", nil), calc.Options{}))
	drawLine(t, s, 10)
	drawLine(t, s, 20)
	assert.Equal(t, 1, s.Cursor())

	require.NoError(t, s.Undo())
	assert.Equal(t, 0, s.Cursor())
	img := s.Image()
	assert.NotEqual(t, colorutil.White, img.RGBAAt(30, 10))
	assert.Equal(t, colorutil.White, img.RGBAAt(30, 20))

	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.Equal(t, -1, s.Cursor())
	assert.True(t, isBlank(s.Image()))

	require.NoError(t, s.Redo())
	assert.NotEqual(t, colorutil.White, s.Image().RGBAAt(30, 10))
	assert.True(t, s.CanRedo())
}

func TestEventsFire(t *testing.T) {
	s := NewSession(testConfig(), calc.New(ocr.Static("1+1", nil), calc.Options{}))
	var committed, modes, done int
	s.On(EventStrokeCommitted, func(interface{}) { committed++ })
	s.On(EventModeChanged, func(data interface{}) {
		modes++
		assert.Equal(t, stroke.ModeEraser, data)
	})
	s.On(EventCalculationDone, func(data interface{}) {
		done++
		assert.Equal(t, 2.0, data.(calc.Outcome).Result)
	})

	drawLine(t, s, 15)
	s.ToggleEraser()
	_, err := s.Calculate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, modes)
	assert.Equal(t, 1, done)
}

func TestCanvasFrozenWhileCalculating(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	rec := ocr.RecognizerFunc(func(context.Context, image.Image, string) (string, error) {
		close(started)
		<-release
		return "2+3", nil
	})
	s := NewSession(testConfig(), calc.New(rec, calc.Options{}))
	drawLine(t, s, 15)

	done := make(chan calc.Outcome)
	go func() {
		out, err := s.Calculate(context.Background())
		assert.NoError(t, err)
		done <- out
	}()
	<-started

	assert.True(t, s.Pending())
	assert.ErrorIs(t, s.StartStroke(geometry.NewPoint2D(1, 1)), ErrBusy)
	assert.ErrorIs(t, s.Undo(), ErrBusy)
	assert.ErrorIs(t, s.Redo(), ErrBusy)
	assert.ErrorIs(t, s.Clear(), ErrBusy)
	_, err := s.Calculate(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	out := <-done
	assert.Equal(t, "Calculation: 2+3 = 5", out.Message())
	assert.False(t, s.Pending())
	assert.Equal(t, 0, s.Cursor(), "history untouched by the calculation")
	require.NoError(t, s.Undo())
}

func TestCalculateOnEmptyCanvas(t *testing.T) {
	s := NewSession(testConfig(), calc.New(ocr.Static("7", nil), calc.Options{SkipBlank: true}))
	out, err := s.Calculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calc.MsgUnrecognizedInput, out.Message())
}

func TestClearIsUndoable(t *testing.T) {
	s := NewSession(testConfig(), calc.New(ocr.Static("", nil), calc.Options{}))
	drawLine(t, s, 15)
	require.NoError(t, s.Clear())
	assert.True(t, isBlank(s.Image()))

	require.NoError(t, s.Undo())
	assert.False(t, isBlank(s.Image()))
}

func TestToolSettings(t *testing.T) {
	s := NewSession(testConfig(), calc.New(ocr.Static("", nil), calc.Options{}))
	s.SetWidth(9)
	s.SetColor(colorutil.Red)
	assert.Equal(t, colorutil.Red, s.PenColor())

	s.ToggleEraser()
	s.SetWidth(30)
	pen, eraser := s.Widths()
	assert.Equal(t, 9.0, pen)
	assert.Equal(t, 30.0, eraser)
	assert.Equal(t, 30.0, s.Width())
	assert.Equal(t, stroke.ModeEraser, s.Mode())
}

func TestConfigColors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, colorutil.White, cfg.BackgroundColor())
	cfg.Background = "bogus"
	assert.Equal(t, colorutil.White, cfg.BackgroundColor())

	cfg.PenColor = "#0000ff"
	assert.Equal(t, colorutil.Blue, cfg.RecorderOptions().PenColor)
}
