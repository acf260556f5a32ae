// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used in command output.
const (
	// Success marks a completed write (submission, new option, export).
	Success = "✓"

	// Error marks a rejected operation.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "✗"

	// Warning marks a degraded but usable state.
	Warning = "!"

	// Info marks informational lines such as the all-complete notice.
	Info = "i"
)
