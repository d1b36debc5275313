// Package completion generates and installs shell completion scripts.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/internal/cmd/constants"
	pkgconstants "github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Generate writes the completion script for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case constants.ShellBash:
		return root.GenBashCompletionV2(w, true)
	case constants.ShellZsh:
		return root.GenZshCompletion(w)
	case constants.ShellFish:
		return root.GenFishCompletion(w, true)
	case constants.ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return unsupported(shell)
	}
}

// Install writes the completion script for shell to its install location
// and returns the path written.
func Install(root *cobra.Command, shell string) (string, error) {
	targetPath, err := Path(shell)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), pkgconstants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(targetPath), err)
	}

	file, err := os.Create(targetPath) // #nosec G304 - path comes from Path()
	if err != nil {
		return "", errors.WrapIO("create", targetPath, err)
	}
	defer func() { _ = file.Close() }()

	if err := Generate(root, shell, file); err != nil {
		return "", fmt.Errorf("generating %s completion: %w", shell, err)
	}
	return targetPath, nil
}

// Uninstall removes the completion script Install writes for shell, and any
// copies left in common system locations. It returns the removed paths.
func Uninstall(shell string) ([]string, error) {
	targetPath, err := Path(shell)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range append([]string{targetPath}, commonPaths(shell)...) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, errors.WrapIO("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Path returns the install location of the completion script for shell.
// Homebrew prefixes are preferred, then the user's home directory.
func Path(shell string) (string, error) {
	var parts []string
	var home []string
	switch shell {
	case constants.ShellBash:
		parts = []string{"etc", "bash_completion.d", constants.BinaryName}
		home = []string{".bash_completion.d", constants.BinaryName}
	case constants.ShellZsh:
		parts = []string{"share", "zsh", "site-functions", "_" + constants.BinaryName}
		home = []string{".zsh", "completions", "_" + constants.BinaryName}
	case constants.ShellFish:
		parts = []string{"share", "fish", "vendor_completions.d", constants.BinaryName + ".fish"}
		home = []string{".config", "fish", "completions", constants.BinaryName + ".fish"}
	default:
		return "", unsupported(shell)
	}

	if prefix := brewPrefix(); prefix != "" {
		return filepath.Join(append([]string{prefix}, parts...)...), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("completion", "cannot determine home directory", err)
	}
	return filepath.Join(append([]string{homeDir}, home...)...), nil
}

func brewPrefix() string {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return prefix
	}
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			return prefix
		}
	}
	return ""
}

// commonPaths lists system locations package managers install to.
func commonPaths(shell string) []string {
	name := constants.BinaryName
	switch shell {
	case constants.ShellBash:
		return []string{
			"/etc/bash_completion.d/" + name,
			"/usr/share/bash-completion/completions/" + name,
		}
	case constants.ShellZsh:
		return []string{
			"/usr/local/share/zsh/site-functions/_" + name,
			"/usr/share/zsh/site-functions/_" + name,
		}
	case constants.ShellFish:
		return []string{
			"/usr/share/fish/vendor_completions.d/" + name + ".fish",
			"/usr/local/share/fish/vendor_completions.d/" + name + ".fish",
		}
	}
	return nil
}

func unsupported(shell string) error {
	return errors.NewValidationError("shell", shell, "must be one of: bash, zsh, fish, powershell")
}
