// Package colorutil provides shared color utilities for the calculator canvas.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// PenPalette is the set of pen colors offered by the toolbar, in display order.
var PenPalette = []string{"#000000", "#ff0000", "#00ff00", "#0000ff", "#ffffff"}

// ParseHex parses "#rrggbb", "#rgb" or the same without the leading '#'.
// The result is always opaque.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(h), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHex is like ParseHex but falls back to black on error.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return Black
	}
	return c
}

// Hex formats a color as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Mean returns the unweighted mean of the red, green and blue channels.
func Mean(c color.RGBA) float64 {
	return (float64(c.R) + float64(c.G) + float64(c.B)) / 3
}
