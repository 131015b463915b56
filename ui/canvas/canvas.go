// Package canvas provides the freehand drawing surface.
package canvas

import (
	"errors"
	"image"
	"log"

	"smartcalc/internal/app"
	"smartcalc/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// DrawingCanvas shows the session image and turns drags into strokes.
type DrawingCanvas struct {
	widget.BaseWidget

	session *app.Session
	raster  *fynecanvas.Raster

	// Interaction state
	stroking bool
	rejected bool // drag started while a calculation was pending

	onError func(err error)
}

var _ fyne.Widget = (*DrawingCanvas)(nil)
var _ fyne.Draggable = (*DrawingCanvas)(nil)

// NewDrawingCanvas creates a canvas bound to session.
func NewDrawingCanvas(session *app.Session) *DrawingCanvas {
	dc := &DrawingCanvas{session: session}

	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels
	size := session.Size()
	dc.raster.SetMinSize(fyne.NewSize(float32(size.Width), float32(size.Height)))

	session.On(app.EventCanvasChanged, func(interface{}) {
		dc.raster.Refresh()
	})

	dc.ExtendBaseWidget(dc)
	return dc
}

// OnError sets a callback for stroke errors other than a pending calculation.
func (dc *DrawingCanvas) OnError(callback func(err error)) {
	dc.onError = callback
}

// draw is the raster drawing function.
func (dc *DrawingCanvas) draw(w, h int) image.Image {
	return dc.session.Image()
}

// toCanvas maps a widget position to canvas pixels.
func toCanvas(pos fyne.Position, widgetSize fyne.Size, canvasSize geometry.Size) geometry.Point2D {
	if widgetSize.Width <= 0 || widgetSize.Height <= 0 {
		return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
	}
	return geometry.NewPoint2D(
		float64(pos.X)*float64(canvasSize.Width)/float64(widgetSize.Width),
		float64(pos.Y)*float64(canvasSize.Height)/float64(widgetSize.Height),
	)
}

func (dc *DrawingCanvas) point(pos fyne.Position) geometry.Point2D {
	return toCanvas(pos, dc.Size(), dc.session.Size())
}

// Dragged implements fyne.Draggable. The first event of a drag starts the
// stroke at the position the pointer was pressed.
func (dc *DrawingCanvas) Dragged(ev *fyne.DragEvent) {
	if dc.rejected {
		return
	}
	if !dc.stroking {
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		if !dc.check(dc.session.StartStroke(dc.point(start))) {
			dc.rejected = true
			return
		}
		dc.stroking = true
	}
	dc.check(dc.session.MoveStroke(dc.point(ev.Position)))
}

// DragEnd implements fyne.Draggable.
func (dc *DrawingCanvas) DragEnd() {
	wasStroking := dc.stroking
	dc.stroking = false
	dc.rejected = false
	if wasStroking {
		dc.check(dc.session.EndStroke())
	}
}

// check reports err and returns whether the operation went through.
func (dc *DrawingCanvas) check(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, app.ErrBusy):
		return false
	default:
		log.Printf("canvas: %v", err)
		if dc.onError != nil {
			dc.onError(err)
		}
		return false
	}
}

// Refresh redraws the raster.
func (dc *DrawingCanvas) Refresh() {
	dc.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (dc *DrawingCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &drawingCanvasRenderer{canvas: dc}
}

type drawingCanvasRenderer struct {
	canvas *DrawingCanvas
}

func (r *drawingCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *drawingCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *drawingCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *drawingCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *drawingCanvasRenderer) Destroy() {}
