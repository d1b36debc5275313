package app

import (
	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/aggregate"
	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/compare"
	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/completion"
	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/plan"
	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/profiles"
	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/serve"
	"github.com/devKoy/csv-version-compare/cmd/csvcompare/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(withGroup(compare.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(aggregate.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(plan.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(serve.NewCommand(a), "core"))

	// Management commands
	rootCmd.AddCommand(withGroup(profiles.NewCommand(a), "management"))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}
