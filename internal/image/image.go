// Package image provides raster loading, copying and preprocessing for
// canvas snapshots.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"

	"smartcalc/pkg/geometry"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Load decodes a PNG, JPEG or TIFF file into an RGBA image.
func Load(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img as an *image.RGBA whose bounds start at the origin.
// An *image.RGBA already at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// CopyInto overwrites dst with the pixels of src. Both must have the same
// bounds.
func CopyInto(dst, src *image.RGBA) error {
	if dst.Bounds() != src.Bounds() {
		return fmt.Errorf("size mismatch: %v vs %v", dst.Bounds(), src.Bounds())
	}
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return nil
}

// Fill paints the whole image with c.
func Fill(img *image.RGBA, c color.RGBA) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect fills the part of r inside the image with a solid color.
func FillRect(img *image.RGBA, r geometry.RectInt, c color.RGBA) {
	clipped := r.Clip(img.Bounds())
	if clipped.Empty() {
		return
	}
	draw.Draw(img, clipped.ToImageRect(), image.NewUniform(c), image.Point{}, draw.Src)
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
