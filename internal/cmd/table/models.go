// Package table converts engine results into rows for terminal tables.
package table

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/devKoy/csv-version-compare/pkg/aggregate"
	"github.com/devKoy/csv-version-compare/pkg/batch"
	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ResultToTableData converts comparison rows to table format. The wide
// layout adds the field patch of Updated rows.
func ResultToTableData(res *differ.Result, wide bool) Data {
	columns := res.Columns()

	styled := false
	for _, row := range res.Rows {
		if row.Style != "" {
			styled = true
			break
		}
	}

	headers := []string{differ.UpdateTypeField}
	if styled {
		headers = append(headers, "Style")
	}
	headers = append(headers, columns...)
	if wide {
		headers = append(headers, "Changes")
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := []string{string(r.UpdateType)}
		if styled {
			row = append(row, r.Style)
		}
		for _, col := range columns {
			row = append(row, r.Value(col).String())
		}
		if wide {
			row = append(row, patchSummary(r))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// patchSummary lists the changed field paths of a row.
func patchSummary(r differ.AnnotatedRow) string {
	paths := make([]string, 0, len(r.Changes))
	for _, op := range r.Changes {
		paths = append(paths, strings.TrimPrefix(op.Path, "/"))
	}
	return strings.Join(paths, ", ")
}

// ResultCountsToTableData converts the counters of a result to a
// two-column table.
func ResultCountsToTableData(res *differ.Result) Data {
	return Data{
		Headers: []string{"Update Type", "Rows"},
		Rows: [][]string{
			{string(differ.New), count(res.NewCount)},
			{string(differ.Updated), count(res.UpdatedCount)},
			{string(differ.Removed), count(res.RemovedCount)},
			{string(differ.Unchanged), count(res.UnchangedCount)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// SummariesToTableData converts order summaries to table format.
func SummariesToTableData(summaries []aggregate.Summary) Data {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.OrderNo,
			count(s.Rows),
			s.QtyOrdered.String(),
			s.QtyReceived.String(),
			s.QtyDue.String(),
		})
	}
	return Data{
		Headers:         []string{"Order", "Rows", "Ordered", "Received", "Due"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// PlanToTableData converts a batch plan to one row per window.
func PlanToTableData(plan *batch.Plan) Data {
	rows := make([][]string, 0, len(plan.Windows))
	for i, w := range plan.Windows {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			count(w.Start),
			count(w.End),
			count(w.Len()),
		})
	}
	return Data{
		Headers:         []string{"Loop", "Start", "End", "Rows"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// ProfilesToTableData converts schema profiles to table format.
func ProfilesToTableData(profiles []*schema.Profile) Data {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(len(p.Aliases)),
			strconv.Itoa(len(p.Patterns)),
			strings.Join(p.FillDown, ", "),
			p.Description,
		})
	}
	return Data{
		Headers: []string{"Name", "Aliases", "Patterns", "Fill Down", "Description"},
		Rows:    rows,
	}
}

// count formats an integer with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}
