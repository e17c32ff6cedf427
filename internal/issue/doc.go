// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue is a catalog of Markdown guidance pages rendered
// with glamour when the CLI reports a configuration problem.
package issue
