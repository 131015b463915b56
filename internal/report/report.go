// Package report records completed calculations.
package report

import (
	"context"
	"time"
)

// Reporter stores one completed calculation. Implementations must be safe
// for concurrent use.
type Reporter interface {
	Report(ctx context.Context, source, expression string, result float64) error
}

// Record is a stored calculation.
type Record struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Expression string    `json:"expression"`
	Result     float64   `json:"result"`
	Created    time.Time `json:"created"`
}

// Discard is a Reporter that stores nothing.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(context.Context, string, string, float64) error { return nil }

// Multi reports to every reporter in turn and returns the first error.
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}

type multi []Reporter

func (m multi) Report(ctx context.Context, source, expression string, result float64) error {
	var first error
	for _, r := range m {
		if err := r.Report(ctx, source, expression, result); err != nil && first == nil {
			first = err
		}
	}
	return first
}
