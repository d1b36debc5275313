package differ

import (
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// QuantityFields is the richer comparison subset used for outstanding-quantity
// reports: only quantity and size changes make a row Updated.
var QuantityFields = []string{
	constants.ColumnQtyOrdered,
	constants.ColumnQtyReceived,
	constants.ColumnQtyDue,
	constants.ColumnSize,
}

// WithKey sets the composite key used to match rows.
func WithKey(key table.Key) Option {
	return func(d *differ) {
		d.key = key
	}
}

// WithCompareFields restricts the comparison to the given columns. By
// default every column shared by both datasets is compared.
func WithCompareFields(fields ...string) Option {
	return func(d *differ) {
		d.fields = fields
	}
}

// WithWindow limits reporting to rows in [start, end) of each dataset.
// A nil end means through the last row.
func WithWindow(start int, end *int) Option {
	return func(d *differ) {
		d.start = start
		d.end = end
	}
}

// WithStyles attaches labels from the style map to emitted rows, looked up
// by the value of column (VLU when column is empty).
func WithStyles(styles StyleMap, column string) Option {
	return func(d *differ) {
		d.styles = styles
		if column != "" {
			d.styleColumn = column
		}
	}
}

// WithUnchangedRows emits Unchanged rows in the result instead of only
// counting them.
func WithUnchangedRows(enabled bool) Option {
	return func(d *differ) {
		d.emitUnchanged = enabled
	}
}

// WithFieldChanges attaches a JSON patch of the changed fields to every
// Updated row.
func WithFieldChanges(enabled bool) Option {
	return func(d *differ) {
		d.fieldChanges = enabled
	}
}

// WithParallelism bounds the number of goroutines comparing matched rows.
// Values below 1 select GOMAXPROCS; 1 runs sequentially.
func WithParallelism(n int) Option {
	return func(d *differ) {
		d.parallelism = n
	}
}
