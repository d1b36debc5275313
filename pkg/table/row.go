package table

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Row is an ordered mapping from column name to Value plus the row's
// 0-based position inside its own dataset. Rows are values: every method
// that changes content returns a new Row.
type Row struct {
	Index   int
	columns []string
	values  map[string]Value
}

// NewRow builds a row from parallel column and value slices. Missing values
// are empty; duplicate column names keep the first value.
func NewRow(index int, columns []string, values []Value) Row {
	r := Row{
		Index:   index,
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]Value, len(columns)),
	}
	for i, col := range columns {
		var v Value
		if i < len(values) {
			v = values[i]
		}
		if _, dup := r.values[col]; dup {
			continue
		}
		r.columns = append(r.columns, col)
		r.values[col] = v
	}
	return r
}

// RowFromMap builds a row from a map using the given column order. Columns
// absent from the map are empty.
func RowFromMap(index int, columns []string, m map[string]Value) Row {
	values := make([]Value, len(columns))
	for i, col := range columns {
		values[i] = m[col]
	}
	return NewRow(index, columns, values)
}

// Columns returns the row's column names in order.
func (r Row) Columns() []string {
	return slices.Clone(r.columns)
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.columns)
}

// Get returns the value for a column and whether the column exists.
func (r Row) Get(col string) (Value, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Value returns the value for a column, empty when absent.
func (r Row) Value(col string) Value {
	return r.values[col]
}

// With returns a copy of the row with col set to v. New columns are appended.
func (r Row) With(col string, v Value) Row {
	out := r.clone()
	if _, ok := out.values[col]; !ok {
		out.columns = append(out.columns, col)
	}
	out.values[col] = v
	return out
}

// Rename returns a copy of the row with columns renamed through the mapping.
// Columns missing from the mapping keep their name. When two columns map to
// the same name the first one wins.
func (r Row) Rename(mapping func(string) string) Row {
	out := Row{
		Index:   r.Index,
		columns: make([]string, 0, len(r.columns)),
		values:  make(map[string]Value, len(r.columns)),
	}
	for _, col := range r.columns {
		name := mapping(col)
		if _, dup := out.values[name]; dup {
			continue
		}
		out.columns = append(out.columns, name)
		out.values[name] = r.values[col]
	}
	return out
}

// Project returns the values for the given columns, in order.
func (r Row) Project(columns []string) []Value {
	out := make([]Value, len(columns))
	for i, col := range columns {
		out[i] = r.values[col]
	}
	return out
}

// Map returns the row content as a plain map (for diffing and encoding).
func (r Row) Map() map[string]Value {
	out := make(map[string]Value, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both rows hold equal values for the given columns.
func (r Row) Equal(o Row, columns []string) bool {
	for _, col := range columns {
		if !r.values[col].Equal(o.values[col]) {
			return false
		}
	}
	return true
}

func (r Row) clone() Row {
	return Row{
		Index:   r.Index,
		columns: slices.Clone(r.columns),
		values:  r.Map(),
	}
}

// MarshalJSON encodes the row as a JSON object preserving column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[col].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the row as a mapping for YAML output.
func (r Row) MarshalYAML() (any, error) {
	return r.Map(), nil
}
