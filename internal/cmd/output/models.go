package output

import (
	"io"

	"github.com/devKoy/csv-version-compare/internal/cmd/table"
	"github.com/devKoy/csv-version-compare/pkg/aggregate"
	"github.com/devKoy/csv-version-compare/pkg/batch"
	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// write renders data in the requested format, converting it to table rows
// only when a table is wanted.
func write(w io.Writer, format Format, data any, toTable func() Data) error {
	if format.tabular() {
		return NewFormatter(format).Format(w, toTable())
	}
	return NewFormatter(format).Format(w, data)
}

// FormatResult writes a comparison result. Tables show the emitted rows
// followed by the counters.
func FormatResult(w io.Writer, res *differ.Result, format Format) error {
	if !format.tabular() {
		return NewFormatter(format).Format(w, res)
	}
	if len(res.Rows) > 0 {
		if err := NewFormatter(format).Format(w, table.ResultToTableData(res, format == FormatWide)); err != nil {
			return err
		}
	}
	return NewFormatter(format).Format(w, table.ResultCountsToTableData(res))
}

// FormatSummaries writes per-order quantity summaries.
func FormatSummaries(w io.Writer, summaries []aggregate.Summary, format Format) error {
	return write(w, format, summaries, func() Data { return table.SummariesToTableData(summaries) })
}

// FormatPlan writes a batch plan.
func FormatPlan(w io.Writer, plan *batch.Plan, format Format) error {
	return write(w, format, plan, func() Data { return table.PlanToTableData(plan) })
}

// FormatProfiles writes schema profiles.
func FormatProfiles(w io.Writer, profiles []*schema.Profile, format Format) error {
	return write(w, format, profiles, func() Data { return table.ProfilesToTableData(profiles) })
}

// FormatAny writes any value; tables are built by reflection.
func FormatAny(w io.Writer, data any, format Format) error {
	return NewFormatter(format).Format(w, data)
}
