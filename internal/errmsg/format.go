// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Configuration
	OpConfigLoad     Op = "load configuration"
	OpConfigValidate Op = "validate configuration"
	OpSlidesLoad     Op = "load slides"

	// State
	OpStateOpen    Op = "open carousel state"
	OpStateRestore Op = "restore last slide"

	// Server
	OpServe    Op = "serve carousel"
	OpShutdown Op = "shut down server"

	// Navigation
	OpNavigate Op = "go to slide"

	// Preview
	OpPreview Op = "run preview"

	// Check
	OpSlideStat Op = "read slide file"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
