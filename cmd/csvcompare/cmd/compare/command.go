// Package compare provides the compare command.
package compare

import (
	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/internal/cmd/cmdutil"
	"github.com/devKoy/csv-version-compare/internal/cmd/output"
	"github.com/devKoy/csv-version-compare/internal/utils/ptr"
	"github.com/devKoy/csv-version-compare/pkg/differ"
	"github.com/devKoy/csv-version-compare/pkg/logging"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// Flags holds the compare command flags.
type Flags struct {
	Start      int
	End        int
	Key        string
	Fields     []string
	Styles     string
	StyleLabel string
	Types      string
	Unchanged  bool
	Changes    bool
	Input      *cmdutil.InputFlags
}

// NewCommand creates the compare command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "compare OLD UPDATED",
		Short: "Classify row changes between two versions of a file",
		Long: `Compare matches rows of the updated file to rows of the old file on a
composite key and classifies each row:

  New        key not present in the old file
  Updated    key matched but a compared field differs
  Unchanged  key matched and all compared fields are equal
  Removed    old row whose key is absent from the updated file

Matching always runs over the full files. --start and --end only restrict
which rows are reported, so consecutive windows add up to the full result.`,
		Example: `  # Compare two exports on the default key (OrderNo, StoreDescription)
  csvcompare compare po-v1.csv po-v2.csv

  # Only quantity changes count, shown as a wide table with changed fields
  csvcompare compare po-v1.xlsx po-v2.xlsx --fields quantity --changes -o wide

  # Second page of 1000 rows, removed rows only, as JSON
  csvcompare compare old.csv new.csv --start 1000 --end 2000 --types removed -o json

  # ERP headers, key on order and VLU, style labels from a mapping file
  csvcompare compare old.csv new.csv -p erp --key order-vlu --styles styles.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&flags.Start, "start", 0, "First row of the reporting window")
	cmd.Flags().IntVar(&flags.End, "end", 0, "Row after the last row of the window (default end of file)")
	cmd.Flags().StringVarP(&flags.Key, "key", "k", "",
		"Key columns (comma-separated) or preset: order-store, order-vlu, order-vlu-style")
	cmd.Flags().StringSliceVarP(&flags.Fields, "fields", "f", nil,
		"Compared columns, or \"quantity\" (default all shared columns)")
	cmd.Flags().StringVar(&flags.Styles, "styles", "", "File mapping VLU to a style label")
	cmd.Flags().StringVar(&flags.StyleLabel, "style-label", "Style", "Label column of the --styles file")
	cmd.Flags().StringVarP(&flags.Types, "types", "t", "", "Only report these update types (comma-separated)")
	cmd.Flags().BoolVar(&flags.Unchanged, "unchanged", false, "Include Unchanged rows in the output")
	cmd.Flags().BoolVar(&flags.Changes, "changes", false, "Attach changed fields to Updated rows")
	flags.Input = cmdutil.AddInputFlags(cmd)

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, oldPath, updatedPath string) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	types, err := differ.ParseUpdateTypes(flags.Types)
	if err != nil {
		return err
	}

	profile, err := cmdutil.ResolveProfile(app, flags.Input.Profile)
	if err != nil {
		return err
	}
	old, err := flags.Input.LoadDataset(oldPath, profile)
	if err != nil {
		return err
	}
	updated, err := flags.Input.LoadDataset(updatedPath, profile)
	if err != nil {
		return err
	}

	opts, err := options(cmd, app, flags, profile)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithProfile(logging.WithOperation(ctx, "compare"), profile.Name)

	result, err := differ.Compare(ctx, old, updated, opts...)
	if err != nil {
		return err
	}
	if len(types) > 0 {
		result = result.Filter(types...)
	}

	app.Logger().Info().
		Int("new", result.NewCount).
		Int("updated", result.UpdatedCount).
		Int("removed", result.RemovedCount).
		Int("unchanged", result.UnchangedCount).
		Msg("Comparison complete")

	return output.FormatResult(cmd.OutOrStdout(), result, output.DetectFormat(string(format)))
}

// options translates flags and configured defaults into engine options.
func options(cmd *cobra.Command, app application.Application, flags *Flags, profile *schema.Profile) ([]differ.Option, error) {
	defaults := app.Defaults()

	var end *int
	if cmd.Flags().Changed("end") {
		end = ptr.To(flags.End)
	}
	opts, err := cmdutil.CompareOptions(defaults, cmdutil.CompareSettings{
		Key:       flags.Key,
		Fields:    flags.Fields,
		Start:     flags.Start,
		End:       end,
		Unchanged: flags.Unchanged,
		Changes:   flags.Changes,
	})
	if err != nil {
		return nil, err
	}

	if flags.Styles != "" {
		styles, err := flags.Input.LoadDataset(flags.Styles, profile)
		if err != nil {
			return nil, err
		}
		mapping, err := differ.StylesFromDataset(styles, defaults.StyleColumn, flags.StyleLabel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, differ.WithStyles(mapping, defaults.StyleColumn))
	}

	return opts, nil
}
