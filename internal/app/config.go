package app

import (
	"image/color"

	"smartcalc/internal/stroke"
	"smartcalc/pkg/colorutil"
)

// Source is the label attached to calculations made on the drawing canvas.
const Source = "DrawToCalculate"

// Config holds user-adjustable settings.
type Config struct {
	CanvasWidth  int
	CanvasHeight int
	Background   string // hex color of the drawing surface
	PenColor     string // hex color
	PenWidth     float64
	EraserWidth  float64

	Language    string // Tesseract language
	SingleLine  bool   // single-line page segmentation
	HistoryPath string // JSON calculation history; empty uses the default location
	ReportURL   string // base URL of a history service; empty disables it
	SkipBlank   bool   // skip recognition on a blank canvas
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:  800,
		CanvasHeight: 350,
		Background:   "#ffffff",
		PenColor:     "#000000",
		PenWidth:     5,
		EraserWidth:  20,
		Language:     "eng",
		SkipBlank:    true,
	}
}

// BackgroundColor parses Background, falling back to white.
func (c Config) BackgroundColor() color.RGBA {
	bg, err := colorutil.ParseHex(c.Background)
	if err != nil {
		return colorutil.White
	}
	return bg
}

// RecorderOptions converts the pen settings for the stroke recorder.
func (c Config) RecorderOptions() stroke.Options {
	return stroke.Options{
		PenColor:    colorutil.MustParseHex(c.PenColor),
		PenWidth:    c.PenWidth,
		EraserWidth: c.EraserWidth,
	}
}
