// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sketchpub/sketchpub/internal/issue"

	"github.com/spf13/cobra"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// styledServiceError creates a ServiceError whose styled message is the
// formatted error.
func styledServiceError(err error, issueID issue.Id, verbose bool) *ServiceError {
	return newServiceError(err, issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose)))
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
// Without an IssueID the entry linked by an ActionableError in the chain is used.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	catalogEntry := issue.Get(svcErr.IssueID)
	if catalogEntry == nil {
		catalogEntry = issue.IssueOf(svcErr.Err)
	}
	if catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			fmt.Fprintf(stderr, "%s failed to render help for issue %d: %v\n", WarningStyle.Render("Warning:"), catalogEntry.Id(), renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// commandFailed renders err and converts it to an ExitError. Cobra's own error
// and usage output is silenced since the error has already been shown.
func commandFailed(cmd *cobra.Command, stderr io.Writer, err error, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(stderr, svcErr)
	} else {
		fmt.Fprintf(stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	}
	return newExitError(err)
}
