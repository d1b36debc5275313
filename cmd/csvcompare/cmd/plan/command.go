// Package plan provides the plan command.
package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/internal/cmd/alerts"
	"github.com/devKoy/csv-version-compare/internal/cmd/cmdutil"
	"github.com/devKoy/csv-version-compare/internal/cmd/output"
	"github.com/devKoy/csv-version-compare/pkg/batch"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// NewCommand creates the plan command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		rows       int
		batchSize  int
		contiguous bool
	)

	cmd := &cobra.Command{
		Use:   "plan [FILE]",
		Short: "Split a row count into comparison windows",
		Long: `Plan splits a dataset into windows of --batch-size rows for paged
comparison. The row count is read from FILE or given with --rows.

By default windows after the first start one row past the previous end,
which leaves one row between consecutive windows unreported, and a final
empty window is planned when the row count divides evenly. Pass
--contiguous for gap-free windows.`,
		Example: `  csvcompare plan po.csv --batch-size 500
  csvcompare plan --rows 10 --batch-size 3
  csvcompare plan --rows 10 --batch-size 3 --contiguous -o json`,
		Args: cobra.MaximumNArgs(1),
	}

	input := cmdutil.AddInputFlags(cmd)
	cmd.Flags().IntVar(&rows, "rows", 0, "Row count when no file is given")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Rows per window (default from config)")
	cmd.Flags().BoolVar(&contiguous, "contiguous", false, "Plan gap-free windows")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(app.OutputFormat())
		if err != nil {
			return err
		}

		total := rows
		switch {
		case len(args) == 1:
			profile, err := cmdutil.ResolveProfile(app, input.Profile)
			if err != nil {
				return err
			}
			ds, err := input.LoadDataset(args[0], profile)
			if err != nil {
				return err
			}
			total = ds.Len()
		case !cmd.Flags().Changed("rows"):
			return errors.NewValidationError("rows", nil, "a FILE or --rows is required")
		}

		size := batchSize
		if !cmd.Flags().Changed("batch-size") {
			size = app.Defaults().BatchSize
		}

		var opts []batch.Option
		if contiguous {
			opts = append(opts, batch.WithContiguous())
		}
		plan, err := batch.New(total, size, opts...)
		if err != nil {
			return err
		}

		if skipped := plan.Skipped(); len(skipped) > 0 {
			app.Logger().Warn().
				Ints("unreported_rows", skipped).
				Msg("Windows leave rows between them unreported")
			if format.IsTable() {
				_ = alerts.NewFormatWriter(cmd.ErrOrStderr(), format).WriteAlert(
					alerts.NewWarning(fmt.Sprintf("%d rows fall between windows and are never reported", len(skipped))).
						WithDetails("Use --contiguous to plan gap-free windows."))
			}
		}

		return output.FormatPlan(cmd.OutOrStdout(), plan, output.DetectFormat(string(format)))
	}

	return cmd
}
