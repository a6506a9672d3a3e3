// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. It may link an entry of the issue catalog, whose
// Markdown help the CLI renders with glamour.
package issue
