package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// minOCRHeight is the height small canvases are upscaled to before OCR.
const minOCRHeight = 150

// Engine provides recognition using Tesseract.
type Engine struct {
	mu       sync.Mutex
	client   *gosseract.Client
	pageMode gosseract.PageSegMode
}

// NewEngine creates a new Tesseract engine for the given language ("eng"
// when empty).
func NewEngine(language string) (*Engine, error) {
	if language == "" {
		language = "eng"
	}
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Expressions aren't words; dictionary correction only turns "1+1" into
	// something else.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")
	_ = client.SetVariable("language_model_penalty_non_freq_dict_word", "0")

	return &Engine{
		client:   client,
		pageMode: gosseract.PSM_SINGLE_BLOCK,
	}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// SetSingleLine switches between single-line and single-block page
// segmentation.
func (e *Engine) SetSingleLine(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enabled {
		e.pageMode = gosseract.PSM_SINGLE_LINE
	} else {
		e.pageMode = gosseract.PSM_SINGLE_BLOCK
	}
}

// Recognize performs OCR on an entire image. Tesseract calls cannot be
// interrupted, so ctx is only checked before the engine starts.
func (e *Engine) Recognize(ctx context.Context, img image.Image, allowed string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("empty image")
	}

	buf, err := encodeForOCR(img)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", fmt.Errorf("engine closed")
	}

	if err := e.client.SetPageSegMode(e.pageMode); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(allowed); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// encodeForOCR converts img to a BGR Mat, upscales short images and returns
// PNG bytes for Tesseract.
func encodeForOCR(img image.Image) ([]byte, error) {
	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	scaled := upscale(bgr)
	defer scaled.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, scaled)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close.
	return append([]byte(nil), buf.GetBytes()...), nil
}

// upscale enlarges images shorter than minOCRHeight.
func upscale(src gocv.Mat) gocv.Mat {
	h := src.Rows()
	if h == 0 || h >= minOCRHeight {
		return src.Clone()
	}
	scale := float64(minOCRHeight) / float64(h)
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Point{}, scale, scale, gocv.InterpolationCubic)
	return dst
}
