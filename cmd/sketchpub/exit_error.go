// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/sketchpub/sketchpub/pkg/types"
)

// ExitError carries the process exit code of a failed command back to Execute,
// so RunE handlers never call os.Exit themselves.
//
// Publish and inspect failures carry types.ExitFailure, or types.ExitCanceled
// when the run was interrupted. Invalid flag values carry types.ExitUsage.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// newExitError wraps a command failure with the code exitCodeFor picks for it.
func newExitError(err error) *ExitError {
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// newUsageError wraps an invalid flag or argument.
func newUsageError(err error) *ExitError {
	return &ExitError{Code: types.ExitUsage, Err: err}
}

// Error returns the wrapped error's message, or the bare exit status.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the wrapped error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// processExitCode maps the error fang.Execute returned to the status passed to
// os.Exit. Errors that are not an ExitError exit with types.ExitFailure.
func processExitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}
