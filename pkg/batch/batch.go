// Package batch splits a row count into fixed-size comparison windows.
package batch

import (
	"fmt"

	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Window is a half-open row range [Start, End).
type Window struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// String returns the window in interval notation.
func (w Window) String() string {
	return fmt.Sprintf("[%d, %d)", w.Start, w.End)
}

// Plan describes how a dataset is paged.
type Plan struct {
	TotalRows  int      `json:"total_rows" yaml:"total_rows"`
	BatchSize  int      `json:"batch_size" yaml:"batch_size"`
	TotalLoops int      `json:"total_loops" yaml:"total_loops"`
	Contiguous bool     `json:"contiguous" yaml:"contiguous"`
	Windows    []Window `json:"windows" yaml:"windows"`
}

// Option configures a Plan.
type Option func(*options)

type options struct {
	contiguous bool
}

// WithContiguous makes each window start where the previous one ended.
// Without it the next start is previous end + 1, which skips the row at
// every boundary; that layout is kept as the default for compatibility with
// existing consumers of the plan.
func WithContiguous() Option {
	return func(o *options) {
		o.contiguous = true
	}
}

// New computes ceil(totalRows/batchSize) windows. Starts and ends are
// clamped to totalRows, so trailing windows may be empty.
func New(totalRows, batchSize int, opts ...Option) (*Plan, error) {
	if batchSize <= 0 {
		return nil, errors.NewValidationError("batch_size", batchSize, "must be positive")
	}
	if totalRows < 0 {
		return nil, errors.NewValidationError("total_rows", totalRows, "must not be negative")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	loops := (totalRows + batchSize - 1) / batchSize
	plan := &Plan{
		TotalRows:  totalRows,
		BatchSize:  batchSize,
		TotalLoops: loops,
		Contiguous: o.contiguous,
		Windows:    make([]Window, 0, loops),
	}
	end := 0
	for i := 0; i < loops; i++ {
		start := 0
		if i > 0 {
			start = end
			if !o.contiguous {
				start++
			}
		}
		start = min(start, totalRows)
		end = min(start+batchSize, totalRows)
		plan.Windows = append(plan.Windows, Window{Start: start, End: end})
	}
	return plan, nil
}

// Skipped returns the row indices no window covers.
func (p *Plan) Skipped() []int {
	var out []int
	next := 0
	for _, w := range p.Windows {
		for i := next; i < w.Start; i++ {
			out = append(out, i)
		}
		next = max(next, w.End)
	}
	for i := next; i < p.TotalRows; i++ {
		out = append(out, i)
	}
	return out
}
