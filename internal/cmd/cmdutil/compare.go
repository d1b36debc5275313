package cmdutil

import (
	"strings"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// QuantityPreset selects differ.QuantityFields as the compared columns.
const QuantityPreset = "quantity"

// CompareSettings describes one comparison as given on the command line or
// in query parameters. Blank values fall back to the configured defaults.
type CompareSettings struct {
	Key       string   // key columns or preset name
	Fields    []string // compared columns, or the quantity preset
	Start     int
	End       *int
	Unchanged bool
	Changes   bool
}

// CompareOptions builds the engine options for s. Style maps come from
// different sources per caller and are appended by them.
func CompareOptions(defaults application.Defaults, s CompareSettings) ([]differ.Option, error) {
	keySpec := s.Key
	if keySpec == "" {
		keySpec = defaults.Key
	}
	key, err := table.ParseKey(keySpec)
	if err != nil {
		return nil, err
	}

	opts := []differ.Option{
		differ.WithKey(key),
		differ.WithWindow(s.Start, s.End),
		differ.WithUnchangedRows(s.Unchanged),
		differ.WithFieldChanges(s.Changes),
		differ.WithParallelism(defaults.Parallelism),
	}

	fields := s.Fields
	if len(fields) == 0 {
		fields = defaults.CompareFields
	}
	if len(fields) == 1 && strings.EqualFold(fields[0], QuantityPreset) {
		fields = differ.QuantityFields
	}
	if len(fields) > 0 {
		opts = append(opts, differ.WithCompareFields(fields...))
	}
	return opts, nil
}
