package differ

import (
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// StyleMap maps an identifier (usually a VLU) to a style label.
type StyleMap map[string]string

// Label returns the label for the row's value in column, or "".
func (m StyleMap) Label(r table.Row, column string) string {
	if len(m) == 0 {
		return ""
	}
	v := r.Value(column)
	if v.IsEmpty() {
		return ""
	}
	return m[v.String()]
}

// StylesFromDataset builds a style map from two columns of a dataset. An
// empty idColumn defaults to VLU. Later rows override earlier ones.
func StylesFromDataset(ds table.Dataset, idColumn, labelColumn string) (StyleMap, error) {
	if idColumn == "" {
		idColumn = constants.ColumnVLU
	}
	for _, col := range []string{idColumn, labelColumn} {
		if !ds.HasColumn(col) {
			return nil, errors.NewSchemaError(ds.Name, col, "style")
		}
	}
	styles := make(StyleMap, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		id, label := row.Value(idColumn), row.Value(labelColumn)
		if id.IsEmpty() || label.IsEmpty() {
			continue
		}
		styles[id.String()] = label.String()
	}
	return styles, nil
}
