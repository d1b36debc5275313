// Package constants provides shared constants for CLI commands.
package constants

// Shell type constants for completion commands.
const (
	// ShellBash represents the Bash shell.
	ShellBash = "bash"

	// ShellZsh represents the Zsh shell.
	ShellZsh = "zsh"

	// ShellFish represents the Fish shell.
	ShellFish = "fish"

	// ShellPowerShell represents PowerShell.
	ShellPowerShell = "powershell"
)

// InstallableShells are the shells whose completions can be installed to a
// well-known directory. PowerShell scripts are loaded from the profile.
var InstallableShells = []string{ShellBash, ShellZsh, ShellFish}

// BinaryName is the installed executable name used in completion scripts.
const BinaryName = "csvcompare"
