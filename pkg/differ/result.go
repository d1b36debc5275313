package differ

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/wI2L/jsondiff"

	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// UpdateType classifies one row of a comparison.
type UpdateType string

// Update types.
const (
	New       UpdateType = "New"
	Updated   UpdateType = "Updated"
	Removed   UpdateType = "Removed"
	Unchanged UpdateType = "Unchanged"
)

// UpdateTypeField is the JSON field carrying the classification.
const UpdateTypeField = "Update Type"

// AnnotatedRow is an emitted row with its classification. New, Updated and
// Unchanged rows carry the updated row; Removed rows carry the old row.
type AnnotatedRow struct {
	table.Row
	UpdateType UpdateType
	Style      string         // label from the style map, if any
	OldIndex   int            // position of the paired or removed old row, -1 for New
	Changes    jsondiff.Patch // populated for Updated rows when field changes are enabled
}

// MarshalJSON flattens the row fields and appends the classification.
func (r AnnotatedRow) MarshalJSON() ([]byte, error) {
	body, err := r.Row.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(body[:len(body)-1])
	sep := func() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
	}
	sep()
	fmt.Fprintf(&buf, "%q:%q", UpdateTypeField, r.UpdateType)
	if r.Style != "" {
		label, _ := json.Marshal(r.Style)
		buf.WriteString(`,"Style":`)
		buf.Write(label)
	}
	if len(r.Changes) > 0 {
		patch, err := json.Marshal(r.Changes)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"Changes":`)
		buf.Write(patch)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the row as a mapping for YAML output.
func (r AnnotatedRow) MarshalYAML() (any, error) {
	out := make(map[string]any, r.Len()+3)
	for k, v := range r.Map() {
		out[k] = v
	}
	out[UpdateTypeField] = string(r.UpdateType)
	if r.Style != "" {
		out["Style"] = r.Style
	}
	if len(r.Changes) > 0 {
		out["Changes"] = r.Changes.String()
	}
	return out, nil
}

// Result is the outcome of comparing two dataset versions over one window.
type Result struct {
	TotalTimeSeconds float64        `json:"total_time_seconds" yaml:"total_time_seconds"`
	UnchangedCount   int            `json:"unchanged_count" yaml:"unchanged_count"`
	NewCount         int            `json:"new_count" yaml:"new_count"`
	RemovedCount     int            `json:"removed_count" yaml:"removed_count"`
	UpdatedCount     int            `json:"updated_count" yaml:"updated_count"`
	WindowStart      int            `json:"window_start" yaml:"window_start"`
	WindowEnd        int            `json:"window_end" yaml:"window_end"`
	OldRowCount      int            `json:"old_row_count" yaml:"old_row_count"`
	UpdatedRowCount  int            `json:"updated_row_count" yaml:"updated_row_count"`
	Key              []string       `json:"key" yaml:"key"`
	Rows             []AnnotatedRow `json:"result" yaml:"result"`
}

// HasChanges returns true if the window contains any New, Updated or
// Removed row.
func (r *Result) HasChanges() bool {
	return r.NewCount+r.UpdatedCount+r.RemovedCount > 0
}

// Count returns the counter for an update type.
func (r *Result) Count(t UpdateType) int {
	switch t {
	case New:
		return r.NewCount
	case Updated:
		return r.UpdatedCount
	case Removed:
		return r.RemovedCount
	case Unchanged:
		return r.UnchangedCount
	}
	return 0
}

// Filter returns a copy of the result holding only rows of the given types.
// Counters are left untouched.
func (r *Result) Filter(types ...UpdateType) *Result {
	if len(types) == 0 {
		return r
	}
	filtered := *r
	filtered.Rows = make([]AnnotatedRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		if slices.Contains(types, row.UpdateType) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return &filtered
}

// Columns returns the union of emitted row columns in first-seen order.
func (r *Result) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range r.Rows {
		for _, c := range row.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// String returns a human-readable summary.
func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Window [%d, %d) of %d old / %d updated rows\n",
		r.WindowStart, r.WindowEnd, r.OldRowCount, r.UpdatedRowCount)
	if !r.HasChanges() {
		fmt.Fprintf(&sb, "No changes (%d unchanged)\n", r.UnchangedCount)
		return sb.String()
	}
	fmt.Fprintf(&sb, "New: %d, Updated: %d, Removed: %d, Unchanged: %d\n",
		r.NewCount, r.UpdatedCount, r.RemovedCount, r.UnchangedCount)
	fmt.Fprintf(&sb, "Completed in %.3fs\n", r.TotalTimeSeconds)
	return sb.String()
}

// ParseUpdateTypes parses a comma-separated list of update types,
// case-insensitively.
func ParseUpdateTypes(s string) ([]UpdateType, error) {
	var out []UpdateType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, ok := updateTypeNames[strings.ToLower(part)]
		if !ok {
			return nil, errors.NewValidationError("types", part, "unknown update type")
		}
		out = append(out, t)
	}
	return out, nil
}

var updateTypeNames = map[string]UpdateType{
	"new":       New,
	"updated":   Updated,
	"removed":   Removed,
	"unchanged": Unchanged,
}
