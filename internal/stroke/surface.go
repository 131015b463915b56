// Package stroke turns pointer events into canvas mutations and commits a
// snapshot to the history when each stroke ends.
package stroke

import (
	"image"
	"image/color"

	calcimage "smartcalc/internal/image"
	"smartcalc/pkg/geometry"

	"github.com/fogleman/gg"
)

// Surface is the raster the user draws on. One surface exists per canvas
// and is passed explicitly to every Recorder call.
type Surface struct {
	img        *image.RGBA
	dc         *gg.Context
	background color.RGBA
}

// NewSurface creates a width × height surface filled with background.
func NewSurface(width, height int, background color.RGBA) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(img)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetLineCap(gg.LineCapRound)

	s := &Surface{img: img, dc: dc, background: background}
	s.Clear()
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Background returns the color used for clearing and erasing.
func (s *Surface) Background() color.RGBA { return s.background }

// Image returns the live raster. Callers must not keep it across
// mutations; use Snapshot for a stable copy.
func (s *Surface) Image() *image.RGBA { return s.img }

// Snapshot returns a copy of the current raster.
func (s *Surface) Snapshot() *image.RGBA { return calcimage.Clone(s.img) }

// Clear resets every pixel to the background and drops any open path.
func (s *Surface) Clear() {
	s.dc.ClearPath()
	calcimage.Fill(s.img, s.background)
}

// Restore replaces the raster with snap.
func (s *Surface) Restore(snap *image.RGBA) error {
	s.dc.ClearPath()
	return calcimage.CopyInto(s.img, snap)
}

// EraseSquare fills a square of the given side centered on p with the
// background color.
func (s *Surface) EraseSquare(p geometry.Point2D, side float64) {
	calcimage.FillRect(s.img, geometry.SquareAround(p, side), s.background)
}

// beginPath starts a new path at p.
func (s *Surface) beginPath(p geometry.Point2D) {
	s.dc.ClearPath()
	s.dc.MoveTo(p.X, p.Y)
}

// extendPath adds a segment to p and repaints the whole path.
func (s *Surface) extendPath(p geometry.Point2D, c color.Color, width float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.LineTo(p.X, p.Y)
	s.dc.StrokePreserve()
}

// closePath drops the current path without painting.
func (s *Surface) closePath() {
	s.dc.ClearPath()
}
