// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/sketchpub/sketchpub/internal/issue"
	"github.com/sketchpub/sketchpub/internal/publish"
	"github.com/sketchpub/sketchpub/internal/uploader"
	"github.com/sketchpub/sketchpub/internal/workspace"
	"github.com/sketchpub/sketchpub/pkg/types"
)

// classifyPublishError maps a fatal run error to its issue catalog entry.
func classifyPublishError(err error) issue.Id {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, publish.ErrExportFailed):
		return issue.ExportFailedId
	case errors.Is(err, uploader.ErrScriptFailed), errors.Is(err, uploader.ErrInvalidOutcome):
		return issue.UploadScriptFailedId
	case errors.Is(err, publish.ErrDialogFailed):
		return issue.DialogFailedId
	default:
		return 0
	}
}

// classifyWarning maps a recoverable run failure to its issue catalog entry.
func classifyWarning(err error) issue.Id {
	switch {
	case errors.Is(err, workspace.ErrReadOnlyDocument):
		return issue.ReadOnlyDocumentId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, publish.ErrPreferenceAccessFailed):
		return issue.PreferenceAccessFailedId
	case errors.Is(err, publish.ErrMetadataAccessFailed):
		return issue.MetadataAccessFailedId
	case errors.Is(err, publish.ErrExportFailed):
		return issue.ExportFailedId
	default:
		return 0
	}
}

// classifyOpenError maps a document open failure to its issue catalog entry.
func classifyOpenError(err error) issue.Id {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.DescriptorNotFoundId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	default:
		return issue.DescriptorInvalidId
	}
}

// describeOpenError wraps a document open failure with the descriptor path and
// a suggestion for the user.
func describeOpenError(path string, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("open document").
		WithResource(path).
		WithIssue(classifyOpenError(err))
	if errors.Is(err, fs.ErrNotExist) {
		ec = ec.WithSuggestion("Check the descriptor path and that the file exists")
	} else {
		ec = ec.WithSuggestion("Descriptors need a kind of part, assembly, drawing or other")
	}
	return ec.Wrap(err).BuildError()
}

// exitCodeFor returns the process exit code for a failed command.
func exitCodeFor(err error) types.ExitCode {
	if errors.Is(err, context.Canceled) {
		return types.ExitCanceled
	}
	return types.ExitFailure
}
