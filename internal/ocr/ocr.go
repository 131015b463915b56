// Package ocr recognizes handwritten arithmetic in canvas images.
package ocr

import (
	"context"
	"image"
)

// ExpressionChars is the whitelist hint passed to the recognizer. Engines
// may ignore it, so callers still sanitize the returned text.
const ExpressionChars = "0123456789+-*/()."

// Recognizer turns an image into raw text. Implementations may be
// non-deterministic and may fail.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, allowed string) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image, allowed string) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image, allowed string) (string, error) {
	return f(ctx, img, allowed)
}

// Static returns a Recognizer that always answers text, or err when err is
// non-nil.
func Static(text string, err error) Recognizer {
	return RecognizerFunc(func(ctx context.Context, _ image.Image, _ string) (string, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return text, err
	})
}
