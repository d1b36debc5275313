// Package profiles provides the profiles command.
package profiles

import (
	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/internal/cmd/output"
	"github.com/devKoy/csv-version-compare/pkg/schema"
)

// NewCommand creates the profiles command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [NAME]",
		Short: "List header profiles",
		Long: `Profiles lists the header profiles used to normalize source column names.
Built-in profiles are always available; more can be loaded from the YAML
file named by the profiles_file config key.`,
		Example: `  csvcompare profiles
  csvcompare profiles erp -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			registry, err := app.Profiles()
			if err != nil {
				return err
			}

			list := registry.List()
			if len(args) == 1 {
				p, err := registry.Get(args[0])
				if err != nil {
					return err
				}
				list = []*schema.Profile{p}
			}

			return output.FormatProfiles(cmd.OutOrStdout(), list, output.DetectFormat(string(format)))
		},
	}
}
