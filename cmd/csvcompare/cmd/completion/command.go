// Package completion provides shell completion management commands.
package completion

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/internal/cmd/alerts"
	"github.com/devKoy/csv-version-compare/internal/cmd/completion"
	"github.com/devKoy/csv-version-compare/internal/cmd/constants"
	"github.com/devKoy/csv-version-compare/internal/cmd/output"
)

// NewCommand creates the completion command. It replaces cobra's default
// completion command to add install and uninstall.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Manage shell completions",
		Long: `Generate completion scripts to stdout, or install them for your shell.

  # Load bash completions in the current session
  source <(csvcompare completion bash)

  # Install completions for bash, zsh and fish
  csvcompare completion install

  # Remove zsh completions only
  csvcompare completion uninstall --zsh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, shell := range []string{constants.ShellBash, constants.ShellZsh, constants.ShellFish, constants.ShellPowerShell} {
		cmd.AddCommand(newGenerateCommand(shell))
	}
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newUninstallCommand())

	return cmd
}

func newGenerateCommand(shell string) *cobra.Command {
	return &cobra.Command{
		Use:                   shell,
		Short:                 fmt.Sprintf("Generate %s completion script", shell),
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return completion.Generate(cmd.Root(), shell, cmd.OutOrStdout())
		},
	}
}

func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install shell completions",
		Long: `Install completion scripts into the Homebrew prefix when one is found,
otherwise into your home directory. Without shell flags all of bash, zsh
and fish are installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := alerts.NewFormatWriter(cmd.OutOrStdout(), output.FormatTable)
			var failed []string
			for _, shell := range selectedShells(cmd) {
				path, err := completion.Install(cmd.Root(), shell)
				if err != nil {
					failed = append(failed, shell)
					_ = w.WriteAlert(alerts.NewError(shell + " completions not installed").WithError(err))
					continue
				}
				_ = w.WriteAlert(alerts.NewSuccess(fmt.Sprintf("%s completions installed to %s", shell, path)))
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to install completions for: %s", strings.Join(failed, ", "))
			}
			return w.WriteAlert(alerts.NewInfo("Start a new shell session to enable completions."))
		},
	}
	addShellFlags(cmd, "Install")
	return cmd
}

func newUninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove shell completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := alerts.NewFormatWriter(cmd.OutOrStdout(), output.FormatTable)
			var failed []string
			for _, shell := range selectedShells(cmd) {
				removed, err := completion.Uninstall(shell)
				if err != nil {
					failed = append(failed, shell)
					_ = w.WriteAlert(alerts.NewError(shell + " completions not removed").WithError(err))
					continue
				}
				if len(removed) == 0 {
					_ = w.WriteAlert(alerts.NewInfo(fmt.Sprintf("No %s completions found", shell)))
					continue
				}
				_ = w.WriteAlert(alerts.NewSuccess(fmt.Sprintf("Removed %s completions", shell)).WithDetails(removed...))
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to remove completions for: %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
	addShellFlags(cmd, "Remove")
	return cmd
}

func addShellFlags(cmd *cobra.Command, verb string) {
	for _, shell := range constants.InstallableShells {
		cmd.Flags().Bool(shell, false, fmt.Sprintf("%s %s completions only", verb, shell))
	}
}

// selectedShells returns the shells named by flags, or all installable
// shells when none is given.
func selectedShells(cmd *cobra.Command) []string {
	var shells []string
	for _, shell := range constants.InstallableShells {
		if on, _ := cmd.Flags().GetBool(shell); on {
			shells = append(shells, shell)
		}
	}
	if len(shells) == 0 {
		return constants.InstallableShells
	}
	return shells
}
