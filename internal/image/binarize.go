package image

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// BinarizeThreshold is the channel mean above which a pixel becomes white.
const BinarizeThreshold = 128

// Binarize thresholds src to pure black and white. Each pixel whose
// unweighted red/green/blue mean exceeds BinarizeThreshold becomes white,
// every other pixel black; alpha is kept. src is never modified, so a
// snapshot still held by the history can be passed directly.
//
// Anti-aliased stroke edges come out as solid pixels, which is what the
// recognizer handles best. Binarize(Binarize(x)) equals Binarize(x).
func Binarize(src *image.RGBA) *image.RGBA {
	out := Clone(src)
	pix := out.Pix
	for y := 0; y < out.Rect.Dy(); y++ {
		row := pix[y*out.Stride : y*out.Stride+out.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			sum := int(row[i]) + int(row[i+1]) + int(row[i+2])
			var v uint8
			if sum > 3*BinarizeThreshold {
				v = 255
			}
			row[i], row[i+1], row[i+2] = v, v, v
		}
	}
	return out
}

// IsBinary reports whether every pixel's color channels are 0 or 255 and
// equal to each other.
func IsBinary(img *image.RGBA) bool {
	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			r, g, b := row[i], row[i+1], row[i+2]
			if (r != 0 && r != 255) || r != g || g != b {
				return false
			}
		}
	}
	return true
}

// InkRatio returns the fraction of pixels in a binarized image that are
// black, weighted by alpha so fully transparent pixels count as background.
func InkRatio(bin *image.RGBA) float64 {
	n := bin.Rect.Dx() * bin.Rect.Dy()
	if n == 0 {
		return 0
	}
	ink := make([]float64, 0, n)
	weights := make([]float64, 0, n)
	for y := 0; y < bin.Rect.Dy(); y++ {
		row := bin.Pix[y*bin.Stride : y*bin.Stride+bin.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			v := 0.0
			if row[i] == 0 {
				v = 1
			}
			ink = append(ink, v)
			weights = append(weights, float64(row[i+3])/255)
		}
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return 0
	}
	return stat.Mean(ink, weights)
}
