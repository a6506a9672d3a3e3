// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"errors"
	"fmt"
)

var (
	// ErrExportFailed means the host export reported errors, returned a failure
	// flag, or did not produce the artifact.
	ErrExportFailed = errors.New("export failed")
	// ErrPreferenceAccessFailed means reading, forcing, or restoring the merge
	// preference failed. The run continues; an assembly may export per component.
	ErrPreferenceAccessFailed = errors.New("preference access failed")
	// ErrMetadataAccessFailed means a summary field read or write failed.
	ErrMetadataAccessFailed = errors.New("metadata access failed")
	// ErrDialogFailed means the uploader could not be shown or failed while open.
	ErrDialogFailed = errors.New("upload dialog failed")
	// ErrVersionParseFailed means the host revision string has no numeric major part.
	ErrVersionParseFailed = errors.New("host version could not be parsed")
	// ErrCleanupFailed means the scratch artifact could not be deleted.
	ErrCleanupFailed = errors.New("artifact cleanup failed")
	// ErrNilDocument is returned when Run is called without a document.
	ErrNilDocument = errors.New("no active document")
)

// StepError ties a failure to the workflow state it happened in.
// errors.Is matches both Kind (one of the Err* sentinels) and the cause.
type StepError struct {
	Kind  error
	State State
	Err   error
}

func newStepError(kind error, state State, err error) *StepError {
	return &StepError{Kind: kind, State: state, Err: err}
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (during %s)", e.Kind, e.State)
	}
	return fmt.Sprintf("%s (during %s): %v", e.Kind, e.State, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsFatal reports whether err ends a run. DialogFailed and a missing document
// always do; ExportFailed does unless allowExportErrors downgrades it to a warning.
func IsFatal(err error, allowExportErrors bool) bool {
	if errors.Is(err, ErrDialogFailed) || errors.Is(err, ErrNilDocument) {
		return true
	}
	return !allowExportErrors && errors.Is(err, ErrExportFailed)
}
