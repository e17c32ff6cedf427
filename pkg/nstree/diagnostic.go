// SPDX-License-Identifier: MPL-2.0

package nstree

const (
	// SeverityWarning indicates a recoverable generation warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates the root directory of a tree could not be listed.
	SeverityError Severity = "error"
)

type (
	// Severity represents generation diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal problem met while walking a tree. Diagnostics
	// are returned to callers rather than written to stderr so the caller
	// decides how to render them.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "directory_unreadable").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the directory associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)
