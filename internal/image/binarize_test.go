package image

import (
	"image"
	"image/color"
	"math/rand"
	"path/filepath"
	"testing"

	"smartcalc/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	return img
}

func TestBinarizeThreshold(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255}) // mean == 128 -> black
	img.SetRGBA(1, 0, color.RGBA{R: 129, G: 128, B: 128, A: 255}) // mean > 128 -> white
	img.SetRGBA(2, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})     // pure red, mean 85 -> black
	img.SetRGBA(3, 0, color.RGBA{R: 200, G: 200, B: 10, A: 40})   // alpha kept

	out := Binarize(img)
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 40}, out.RGBAAt(3, 0))
}

func TestBinarizeIsIdempotent(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		img := noise(31, 17, seed)
		once := Binarize(img)
		twice := Binarize(once)
		assert.Equal(t, once.Pix, twice.Pix)
		assert.True(t, IsBinary(once))
	}
}

func TestBinarizeDoesNotMutateSource(t *testing.T) {
	img := noise(8, 8, 7)
	before := append([]uint8(nil), img.Pix...)
	_ = Binarize(img)
	assert.Equal(t, before, img.Pix)
}

func TestBinarizeSubImage(t *testing.T) {
	img := noise(20, 20, 3)
	sub := img.SubImage(image.Rect(5, 5, 15, 12)).(*image.RGBA)
	out := Binarize(sub)
	assert.Equal(t, sub.Bounds(), out.Bounds())
	assert.True(t, IsBinary(out))
}

func TestInkRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Fill(img, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	assert.Equal(t, 0.0, InkRatio(Binarize(img)))

	FillRect(img, geometry.RectInt{X: 0, Y: 0, Width: 5, Height: 2}, color.RGBA{A: 255})
	assert.InDelta(t, 0.1, InkRatio(Binarize(img)), 1e-9)

	transparent := image.NewRGBA(image.Rect(0, 0, 3, 3))
	assert.Equal(t, 0.0, InkRatio(Binarize(transparent)))
}

func TestCloneAndCopyInto(t *testing.T) {
	img := noise(6, 4, 9)
	c := Clone(img)
	assert.Equal(t, img.Pix, c.Pix)
	c.Pix[0]++
	assert.NotEqual(t, img.Pix[0], c.Pix[0])

	require.NoError(t, CopyInto(c, img))
	assert.Equal(t, img.Pix, c.Pix)

	assert.Error(t, CopyInto(image.NewRGBA(image.Rect(0, 0, 1, 1)), img))
	assert.Nil(t, Clone(nil))
}

func TestFillRectClips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	FillRect(img, geometry.RectInt{X: -2, Y: 2, Width: 4, Height: 10}, color.RGBA{R: 9, A: 255})
	assert.Equal(t, uint8(9), img.RGBAAt(0, 3).R)
	assert.Equal(t, uint8(9), img.RGBAAt(1, 2).R)
	assert.Equal(t, uint8(0), img.RGBAAt(2, 2).R)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 1).R)
}

func TestSaveAndLoadPNG(t *testing.T) {
	img := noise(5, 5, 11)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	path := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, SavePNG(path, img))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, loaded.Pix)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	img := noise(10, 10, 2)
	sub := img.SubImage(image.Rect(2, 3, 6, 8))
	out := ToRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 4, 5), out.Bounds())
	assert.Equal(t, img.RGBAAt(2, 3), out.RGBAAt(0, 0))
	assert.Same(t, img, ToRGBA(img))
}
