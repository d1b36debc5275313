// Package aggregate computes per-order quantity totals over a single
// dataset.
package aggregate

import (
	"context"
	"sort"

	"github.com/fvbommel/sortorder"
	"github.com/shopspring/decimal"

	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/logging"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// Summary holds the quantity totals of one group.
type Summary struct {
	OrderNo     string          `json:"OrderNo" yaml:"OrderNo"`
	Rows        int             `json:"rows" yaml:"rows"`
	QtyOrdered  decimal.Decimal `json:"QtyOrdered" yaml:"QtyOrdered"`
	QtyReceived decimal.Decimal `json:"QtyReceived" yaml:"QtyReceived"`
	QtyDue      decimal.Decimal `json:"QtyDue" yaml:"QtyDue"`
}

// Option configures an aggregation.
type Option func(*options)

type options struct {
	groupColumn string
	orderFilter *string
}

// WithGroupColumn groups by a column other than OrderNo.
func WithGroupColumn(column string) Option {
	return func(o *options) {
		if column != "" {
			o.groupColumn = column
		}
	}
}

// WithOrderFilter restricts the aggregation to one group value.
func WithOrderFilter(orderNo string) Option {
	return func(o *options) {
		o.orderFilter = &orderNo
	}
}

// Aggregate sums QtyOrdered and QtyReceived per group and derives QtyDue.
// Non-numeric or missing quantities count as zero. Groups are returned in
// natural order of their key; a filter that matches nothing yields an empty
// slice.
func Aggregate(ctx context.Context, ds table.Dataset, opts ...Option) ([]Summary, error) {
	o := &options{groupColumn: constants.ColumnOrderNo}
	for _, opt := range opts {
		opt(o)
	}
	if !ds.HasColumn(o.groupColumn) {
		return nil, errors.NewSchemaError(ds.Name, o.groupColumn, "group")
	}

	logger := logging.FromContext(ctx)
	groups := make(map[string]*Summary)
	coerced := 0
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		group := row.Value(o.groupColumn).KeyPart()
		if o.orderFilter != nil && group != *o.orderFilter {
			continue
		}
		s, ok := groups[group]
		if !ok {
			s = &Summary{OrderNo: group}
			groups[group] = s
		}
		ordered, ok1 := quantity(row, constants.ColumnQtyOrdered)
		received, ok2 := quantity(row, constants.ColumnQtyReceived)
		if !ok1 || !ok2 {
			coerced++
		}
		s.Rows++
		s.QtyOrdered = s.QtyOrdered.Add(ordered)
		s.QtyReceived = s.QtyReceived.Add(received)
	}

	out := make([]Summary, 0, len(groups))
	for _, s := range groups {
		s.QtyDue = s.QtyOrdered.Sub(s.QtyReceived)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return sortorder.NaturalLess(out[i].OrderNo, out[j].OrderNo)
	})

	logger.Debug().
		Str("group_column", o.groupColumn).
		Int("rows", ds.Len()).
		Int("groups", len(out)).
		Int("coerced", coerced).
		Msg("Aggregated quantities")
	return out, nil
}

// Outstanding returns QtyDue for a single order. ok is false when no row
// carries the order number.
func Outstanding(ctx context.Context, ds table.Dataset, orderNo string) (decimal.Decimal, bool, error) {
	summaries, err := Aggregate(ctx, ds, WithOrderFilter(orderNo))
	if err != nil {
		return decimal.Zero, false, err
	}
	if len(summaries) == 0 {
		return decimal.Zero, false, nil
	}
	return summaries[0].QtyDue, true, nil
}

// quantity reads a numeric cell, substituting zero when it is missing or
// not a number.
func quantity(row table.Row, column string) (decimal.Decimal, bool) {
	v := row.Value(column)
	if v.IsEmpty() {
		return decimal.Zero, true
	}
	d, ok := v.Decimal()
	if !ok {
		return decimal.Zero, false
	}
	return d, true
}
