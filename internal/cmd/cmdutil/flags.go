// Package cmdutil provides shared flags and dataset loading for csvcompare
// commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/pkg/errors"
	"github.com/devKoy/csv-version-compare/pkg/ingest"
	"github.com/devKoy/csv-version-compare/pkg/schema"
	"github.com/devKoy/csv-version-compare/pkg/table"
)

// InputFlags holds flags shared by commands that read datasets.
type InputFlags struct {
	Profile   string
	Sheet     string
	HeaderRow int
	Delimiter string
}

// AddInputFlags adds the dataset input flags to cmd.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}

	cmd.Flags().StringVarP(&flags.Profile, "profile", "p", "",
		"Header profile used to normalize columns (default from config)")
	cmd.Flags().StringVar(&flags.Sheet, "sheet", "",
		"Worksheet to read from XLSX files (default first sheet)")
	cmd.Flags().IntVar(&flags.HeaderRow, "header-row", 0,
		"Number of leading rows to skip before the header")
	cmd.Flags().StringVar(&flags.Delimiter, "delimiter", ",",
		"CSV field delimiter")

	return flags
}

// ResolveProfile looks up the named profile, falling back to the
// configured default.
func ResolveProfile(app application.Application, name string) (*schema.Profile, error) {
	if name == "" {
		name = app.Defaults().Profile
	}
	registry, err := app.Profiles()
	if err != nil {
		return nil, err
	}
	return registry.Get(name)
}

// LoadDataset reads the file at path and normalizes it with profile.
func (f *InputFlags) LoadDataset(path string, profile *schema.Profile) (table.Dataset, error) {
	opts, err := f.options()
	if err != nil {
		return table.Dataset{}, err
	}
	ds, err := ingest.ReadFile(path, opts)
	if err != nil {
		return table.Dataset{}, err
	}
	return profile.Normalize(ds), nil
}

func (f *InputFlags) options() (ingest.Options, error) {
	opts := ingest.Options{Sheet: f.Sheet, HeaderRow: f.HeaderRow}
	if f.Delimiter != "" {
		runes := []rune(f.Delimiter)
		if len(runes) != 1 {
			return opts, errors.NewValidationError("delimiter", f.Delimiter, "must be a single character")
		}
		opts.Comma = runes[0]
	}
	return opts, nil
}
