// Package aggregate provides the aggregate command.
package aggregate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/internal/cmd/alerts"
	"github.com/devKoy/csv-version-compare/internal/cmd/cmdutil"
	"github.com/devKoy/csv-version-compare/internal/cmd/output"
	"github.com/devKoy/csv-version-compare/pkg/aggregate"
	"github.com/devKoy/csv-version-compare/pkg/logging"
)

// NewCommand creates the aggregate command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		order string
		group string
	)

	cmd := &cobra.Command{
		Use:   "aggregate FILE",
		Short: "Sum ordered, received and due quantities per order",
		Long: `Aggregate groups rows by order number and sums QtyOrdered, QtyReceived
and QtyDue. Cells that are not numbers count as zero. Orders are listed in
natural order, so PO-9 comes before PO-10.

With --order only that order's outstanding (due) quantity is printed.`,
		Example: `  csvcompare aggregate po.csv
  csvcompare aggregate po.xlsx --sheet Lines -o json
  csvcompare aggregate po.csv --order PO-1042`,
		Args: cobra.ExactArgs(1),
	}

	input := cmdutil.AddInputFlags(cmd)
	cmd.Flags().StringVar(&order, "order", "", "Print the outstanding quantity of one order")
	cmd.Flags().StringVar(&group, "group", "", "Grouping column (default OrderNo)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(app.OutputFormat())
		if err != nil {
			return err
		}
		profile, err := cmdutil.ResolveProfile(app, input.Profile)
		if err != nil {
			return err
		}
		ds, err := input.LoadDataset(args[0], profile)
		if err != nil {
			return err
		}

		ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "aggregate")

		if order != "" {
			due, found, err := aggregate.Outstanding(ctx, ds, order)
			if err != nil {
				return err
			}
			if !found {
				app.Logger().Warn().Str("order", order).Msg("Order not found")
				_ = alerts.NewFormatWriter(cmd.ErrOrStderr(), output.FormatTable).WriteAlert(
					alerts.NewWarning(fmt.Sprintf("Order %s not found; outstanding quantity is 0", order)))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), due.String())
			return err
		}

		var opts []aggregate.Option
		if group != "" {
			opts = append(opts, aggregate.WithGroupColumn(group))
		}
		summaries, err := aggregate.Aggregate(ctx, ds, opts...)
		if err != nil {
			return err
		}
		return output.FormatSummaries(cmd.OutOrStdout(), summaries, output.DetectFormat(string(format)))
	}

	return cmd
}
