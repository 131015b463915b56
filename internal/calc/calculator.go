// Package calc runs the evaluate action: binarize a snapshot, recognize it,
// evaluate the recognized expression and report successful results.
package calc

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"smartcalc/internal/expr"
	calcimage "smartcalc/internal/image"
	"smartcalc/internal/ocr"
	"smartcalc/internal/report"
)

// User-facing outcome strings.
const (
	MsgUnrecognizedInput = "Error: Could not recognize valid input"
	MsgInvalidExpression = "Error: Invalid expression"
	MsgUnrecognizedText  = "Error: Could not recognize text"
)

var (
	// ErrRecognition wraps any failure of the recognizer.
	ErrRecognition = errors.New("recognition failed")
	// ErrBusy is returned when a calculation is already in flight.
	ErrBusy = errors.New("calculation already in progress")
)

// reportTimeout bounds each background report.
const reportTimeout = 30 * time.Second

// Outcome is the classified result of one evaluate action.
type Outcome struct {
	Raw        string  // text returned by the recognizer
	Expression string  // sanitized expression, empty if sanitizing failed
	Result     float64 // valid when Err is nil
	Err        error
}

// OK reports whether the calculation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Message returns the text shown to the user.
func (o Outcome) Message() string {
	switch {
	case o.Err == nil:
		return fmt.Sprintf("Calculation: %s = %s", o.Expression, FormatResult(o.Result))
	case errors.Is(o.Err, ErrRecognition):
		return MsgUnrecognizedText
	case errors.Is(o.Err, expr.ErrEmptyExpression):
		return MsgUnrecognizedInput
	default:
		return MsgInvalidExpression
	}
}

// FormatResult prints a number the way the drawing UI always has: the
// shortest decimal that round-trips, switching to exponent form only for
// very large or very small magnitudes.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Options configures a Calculator.
type Options struct {
	Source   string          // source label handed to the reporter
	Reporter report.Reporter // nil discards results
	// SkipBlank short-circuits recognition when the binarized image has no
	// contrast at all, returning the same outcome an empty recognition
	// would.
	SkipBlank bool
}

// Calculator runs the evaluate pipeline. At most one calculation runs at a
// time; reports are sent in the background.
type Calculator struct {
	recognizer ocr.Recognizer
	reporter   report.Reporter
	source     string
	skipBlank  bool

	busy    atomic.Bool
	reports sync.WaitGroup
}

// New creates a Calculator.
func New(recognizer ocr.Recognizer, opts Options) *Calculator {
	rep := opts.Reporter
	if rep == nil {
		rep = report.Discard
	}
	return &Calculator{
		recognizer: recognizer,
		reporter:   rep,
		source:     opts.Source,
		skipBlank:  opts.SkipBlank,
	}
}

// Busy reports whether a calculation is in flight.
func (c *Calculator) Busy() bool { return c.busy.Load() }

// Calculate binarizes snapshot, recognizes it and evaluates the text.
// snapshot is not modified. It returns ErrBusy without doing anything if
// another calculation is in flight; every other failure is carried in the
// Outcome.
func (c *Calculator) Calculate(ctx context.Context, snapshot *image.RGBA) (Outcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Outcome{}, ErrBusy
	}
	defer c.busy.Store(false)

	bin := calcimage.Binarize(snapshot)
	if c.skipBlank {
		if ink := calcimage.InkRatio(bin); ink == 0 || ink == 1 {
			log.Printf("calc: blank canvas, skipping recognition")
			return c.finish(ctx, Outcome{Err: expr.ErrEmptyExpression}), nil
		}
	}

	raw, err := c.recognizer.Recognize(ctx, bin, ocr.ExpressionChars)
	if err != nil {
		log.Printf("calc: recognition error: %v", err)
		return c.finish(ctx, Outcome{Err: fmt.Errorf("%w: %w", ErrRecognition, err)}), nil
	}
	log.Printf("calc: recognized text %q", raw)

	return c.finish(ctx, EvaluateText(raw)), nil
}

// EvaluateText runs the recognition-independent stage on raw text.
func EvaluateText(raw string) Outcome {
	expression, result, err := expr.Compute(raw)
	return Outcome{Raw: raw, Expression: expression, Result: result, Err: err}
}

// finish logs the outcome and reports it if it succeeded.
func (c *Calculator) finish(ctx context.Context, o Outcome) Outcome {
	if o.Err != nil {
		log.Printf("calc: %s (%v)", o.Message(), o.Err)
		return o
	}
	log.Printf("calc: %s = %s", o.Expression, FormatResult(o.Result))
	c.report(ctx, o)
	return o
}

// report sends o to the reporter without blocking the caller. Failures are
// only logged.
func (c *Calculator) report(ctx context.Context, o Outcome) {
	c.reports.Add(1)
	go func() {
		defer c.reports.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
		defer cancel()
		if err := c.reporter.Report(rctx, c.source, o.Expression, o.Result); err != nil {
			log.Printf("calc: failed to save calculation: %v", err)
			return
		}
		log.Printf("calc: calculation saved")
	}()
}

// Flush waits for outstanding reports.
func (c *Calculator) Flush() {
	c.reports.Wait()
}
