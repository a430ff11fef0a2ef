// Package output provides JSON/Markdown output formatting and error handling.
package output

// Exit codes.
const (
	ExitOK       = 0 // Success
	ExitUsage    = 1 // Invalid arguments or flags
	ExitNoMatch  = 2 // Expression not understood
	ExitConfig   = 3 // Unreadable or invalid configuration
	ExitInternal = 4 // Anything else
)

// Error codes for JSON envelope.
const (
	CodeUsage    = "usage"
	CodeNoMatch  = "no_match"
	CodeConfig   = "config"
	CodeInternal = "internal"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNoMatch:
		return ExitNoMatch
	case CodeConfig:
		return ExitConfig
	default:
		return ExitInternal
	}
}
