package table

import (
	"slices"

	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Dataset is an ordered sequence of rows plus the ordered column list.
// Datasets are never mutated once built; transforms return new datasets.
type Dataset struct {
	// Name identifies the dataset in logs and errors (usually the file name).
	Name    string
	columns []string
	rows    []Row
}

// NewDataset builds a dataset. Row indices are kept as given so windows and
// normalized copies can keep referring to the original positions.
func NewDataset(name string, columns []string, rows []Row) Dataset {
	return Dataset{
		Name:    name,
		columns: slices.Clone(columns),
		rows:    slices.Clone(rows),
	}
}

// FromRecords builds a dataset from a header and text records, the shape
// produced by CSV and spreadsheet readers. Blank cells become empty values.
func FromRecords(name string, header []string, records [][]string) Dataset {
	rows := make([]Row, len(records))
	for i, rec := range records {
		values := make([]Value, len(header))
		for j := range header {
			if j < len(rec) {
				values[j] = Cell(rec[j])
			}
		}
		rows[i] = NewRow(i, header, values)
	}
	return NewDataset(name, dedupe(header), rows)
}

// FromMaps builds a dataset from decoded JSON objects using the given
// column order.
func FromMaps(name string, columns []string, objects []map[string]Value) Dataset {
	rows := make([]Row, len(objects))
	for i, obj := range objects {
		rows[i] = RowFromMap(i, columns, obj)
	}
	return NewDataset(name, dedupe(columns), rows)
}

// Columns returns the dataset's column names in order.
func (d Dataset) Columns() []string {
	return slices.Clone(d.columns)
}

// HasColumn reports whether the dataset has the column.
func (d Dataset) HasColumn(col string) bool {
	return slices.Contains(d.columns, col)
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.rows)
}

// Row returns the i-th row of this view.
func (d Dataset) Row(i int) Row {
	return d.rows[i]
}

// Rows returns a copy of the row slice.
func (d Dataset) Rows() []Row {
	return slices.Clone(d.rows)
}

// SharedColumns returns the columns present in both datasets, in d's order.
func (d Dataset) SharedColumns(o Dataset) []string {
	var out []string
	for _, col := range d.columns {
		if o.HasColumn(col) {
			out = append(out, col)
		}
	}
	return out
}

// Window returns the rows in [start, end). A nil end means through the last
// row; an end beyond the dataset is clamped and a start beyond it yields an
// empty view. Only a negative start is an error. Rows keep their original
// Index.
func (d Dataset) Window(start int, end *int) (Dataset, error) {
	if start < 0 {
		return Dataset{}, errors.NewWindowError(start, end)
	}
	lo, hi := d.Bounds(start, end)
	return Dataset{
		Name:    d.Name,
		columns: d.columns,
		rows:    d.rows[lo:hi],
	}, nil
}

// Bounds resolves a requested window against the dataset length using the
// same clamping rules as Window. start must be non-negative.
func (d Dataset) Bounds(start int, end *int) (int, int) {
	return ClampWindow(len(d.rows), start, end)
}

// ClampWindow resolves [start, end) against n rows.
func ClampWindow(n, start int, end *int) (int, int) {
	hi := n
	if end != nil && *end < hi {
		hi = *end
	}
	lo := min(start, n)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func dedupe(cols []string) []string {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
