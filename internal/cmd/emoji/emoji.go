// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status indicators in terminal output.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks a notice the user should act on, such as rows left
	// outside every planned window.
	Warning = "!"

	// Info marks general information and tips.
	Info = "i"
)
