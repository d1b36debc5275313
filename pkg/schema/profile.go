// Package schema maps heterogeneous purchase-order export headers onto the
// canonical column set. Each source convention is a named Profile; callers
// pick a profile explicitly and the normalizer never guesses.
package schema

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/devKoy/csv-version-compare/internal/matcher"
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// CanonicalColumns lists the canonical column names in report order.
var CanonicalColumns = []string{
	constants.ColumnOrderNo,
	constants.ColumnStoreDescription,
	constants.ColumnVLU,
	constants.ColumnStyleNumber,
	constants.ColumnSize,
	constants.ColumnQtyOrdered,
	constants.ColumnQtyReceived,
	constants.ColumnQtyDue,
}

// Profile is one known source naming convention.
type Profile struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Aliases     map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"` // source header -> canonical name
	Patterns    []PatternAlias    `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	FillDown    []string          `yaml:"fill_down,omitempty" json:"fill_down,omitempty"`

	lookup   map[string]string // folded header -> canonical name
	matchers []compiledPattern
}

// PatternAlias maps every header matching Pattern to Column. Patterns are
// case-insensitive globs, or regular expressions when prefixed with "re:".
// They are consulted in order, only for headers no exact alias names.
type PatternAlias struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Column  string `yaml:"column" json:"column"`
}

type compiledPattern struct {
	matcher.Matcher
	column string
}

// NewProfile validates and compiles a profile.
func NewProfile(name string, aliases map[string]string, fillDown ...string) (*Profile, error) {
	p := &Profile{Name: name, Aliases: aliases, FillDown: fillDown}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) compile() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewValidationError("name", p.Name, "profile name is required")
	}
	p.lookup = make(map[string]string, len(p.Aliases)+len(CanonicalColumns))
	// Canonical names resolve to themselves so normalizing twice is a no-op.
	for _, col := range CanonicalColumns {
		p.lookup[fold(col)] = col
	}
	for from, to := range p.Aliases {
		if strings.TrimSpace(to) == "" {
			return errors.NewValidationError("aliases", from, "alias target is empty in profile "+p.Name)
		}
		p.lookup[fold(from)] = to
	}
	p.matchers = make([]compiledPattern, 0, len(p.Patterns))
	for _, pa := range p.Patterns {
		if strings.TrimSpace(pa.Column) == "" {
			return errors.NewValidationError("patterns", pa.Pattern, "pattern column is empty in profile "+p.Name)
		}
		m, err := matcher.Parse(pa.Pattern, &matcher.Options{CaseInsensitive: true})
		if err != nil {
			return errors.NewValidationError("patterns", pa.Pattern, err.Error())
		}
		p.matchers = append(p.matchers, compiledPattern{Matcher: m, column: pa.Column})
	}
	return nil
}

// Canonical returns the canonical name for a source header, or the header
// itself when the profile does not know it.
func (p *Profile) Canonical(header string) string {
	if to, ok := p.lookup[fold(header)]; ok {
		return to
	}
	trimmed := strings.Join(strings.Fields(header), " ")
	for _, m := range p.matchers {
		if m.Match(trimmed) {
			return m.column
		}
	}
	return header
}

// NormalizeRow renames the row's columns to canonical names.
func (p *Profile) NormalizeRow(r table.Row) table.Row {
	return r.Rename(p.Canonical)
}

// Normalize returns a new dataset with canonical column names and the
// profile's fill-down columns forward-filled. The input is not modified.
func (p *Profile) Normalize(ds table.Dataset) table.Dataset {
	columns := ds.Columns()
	names := make(map[string]string, len(columns))
	seen := make(map[string]bool, len(columns))
	renamed := make([]string, 0, len(columns))
	for _, col := range columns {
		name := p.Canonical(col)
		names[col] = name
		if seen[name] {
			continue
		}
		seen[name] = true
		renamed = append(renamed, name)
	}

	// Headers are resolved once; rows reuse the mapping.
	rename := func(col string) string {
		if name, ok := names[col]; ok {
			return name
		}
		return p.Canonical(col)
	}
	rows := ds.Rows()
	for i, r := range rows {
		rows[i] = r.Rename(rename)
	}

	for _, col := range p.FillDown {
		if !seen[col] {
			continue
		}
		var last table.Value
		for i, r := range rows {
			v := r.Value(col)
			if v.IsEmpty() {
				if !last.IsEmpty() {
					rows[i] = r.With(col, last)
				}
				continue
			}
			last = v
		}
	}

	return table.NewDataset(ds.Name, renamed, rows)
}

// fold makes header lookup insensitive to case and spacing.
func fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
