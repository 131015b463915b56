package canvas

import (
	"context"
	"image"
	"testing"

	"smartcalc/internal/app"
	"smartcalc/internal/calc"
	"smartcalc/internal/ocr"
	"smartcalc/pkg/colorutil"
	"smartcalc/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, rec ocr.Recognizer) (*DrawingCanvas, *app.Session) {
	t.Helper()
	test.NewApp()
	cfg := app.DefaultConfig()
	cfg.CanvasWidth = 80
	cfg.CanvasHeight = 40
	s := app.NewSession(cfg, calc.New(rec, calc.Options{}))
	dc := NewDrawingCanvas(s)
	dc.Resize(fyne.NewSize(160, 80))
	return dc, s
}

func drag(dc *DrawingCanvas, from, to fyne.Position) {
	dc.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: to},
		Dragged:    fyne.NewDelta(to.X-from.X, to.Y-from.Y),
	})
}

func TestToCanvasScales(t *testing.T) {
	p := toCanvas(fyne.NewPos(100, 50), fyne.NewSize(200, 100), geometry.NewSize(800, 350))
	assert.InDelta(t, 400, p.X, 1e-9)
	assert.InDelta(t, 175, p.Y, 1e-9)

	p = toCanvas(fyne.NewPos(3, 4), fyne.Size{}, geometry.NewSize(800, 350))
	assert.Equal(t, geometry.NewPoint2D(3, 4), p)
}

func TestDragDrawsStroke(t *testing.T) {
	dc, s := newTestCanvas(t, ocr.Static("", nil))

	drag(dc, fyne.NewPos(20, 40), fyne.NewPos(80, 40))
	drag(dc, fyne.NewPos(80, 40), fyne.NewPos(140, 40))
	dc.DragEnd()

	assert.Equal(t, 0, s.Cursor())
	img := s.Image()
	assert.NotEqual(t, colorutil.White, img.RGBAAt(40, 20))
	assert.Equal(t, colorutil.White, img.RGBAAt(40, 5))
}

func TestDragEndWithoutDragIsNoop(t *testing.T) {
	dc, s := newTestCanvas(t, ocr.Static("", nil))
	dc.DragEnd()
	assert.Equal(t, -1, s.Cursor())
}

func TestDragIgnoredWhileCalculating(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	rec := ocr.RecognizerFunc(func(context.Context, image.Image, string) (string, error) {
		close(started)
		<-release
		return "1", nil
	})
	dc, s := newTestCanvas(t, rec)

	var gotErr error
	dc.OnError(func(err error) { gotErr = err })

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Calculate(context.Background())
		assert.NoError(t, err)
	}()
	<-started

	drag(dc, fyne.NewPos(20, 40), fyne.NewPos(80, 40))
	close(release)
	<-done
	drag(dc, fyne.NewPos(80, 40), fyne.NewPos(140, 40))
	dc.DragEnd()

	require.NoError(t, gotErr)
	assert.Equal(t, -1, s.Cursor(), "a drag that started while busy never commits")
}
