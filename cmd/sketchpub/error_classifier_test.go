// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/sketchpub/sketchpub/internal/issue"
	"github.com/sketchpub/sketchpub/internal/publish"
	"github.com/sketchpub/sketchpub/internal/uploader"
	"github.com/sketchpub/sketchpub/internal/workspace"
	"github.com/sketchpub/sketchpub/pkg/types"
)

// stepErr wraps cause the way the orchestrator reports a failed step.
func stepErr(kind, cause error) error {
	return &publish.StepError{Kind: kind, State: publish.StateExporting, Err: cause}
}

func TestClassifyPublishError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"export failed", stepErr(publish.ErrExportFailed, errors.New("1 error")), issue.ExportFailedId},
		{"export permission", stepErr(publish.ErrExportFailed, fs.ErrPermission), issue.PermissionDeniedId},
		{"script exit", stepErr(publish.ErrDialogFailed, &uploader.ScriptExitError{Code: 3}), issue.UploadScriptFailedId},
		{"script outcome", stepErr(publish.ErrDialogFailed, uploader.ErrInvalidOutcome), issue.UploadScriptFailedId},
		{"dialog", stepErr(publish.ErrDialogFailed, errors.New("tty lost")), issue.DialogFailedId},
		{"unclassified", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyPublishError(tt.err); got != tt.want {
				t.Errorf("classifyPublishError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"read-only", stepErr(publish.ErrMetadataAccessFailed, workspace.ErrReadOnlyDocument), issue.ReadOnlyDocumentId},
		{"metadata", stepErr(publish.ErrMetadataAccessFailed, errors.New("io")), issue.MetadataAccessFailedId},
		{"preference", stepErr(publish.ErrPreferenceAccessFailed, errors.New("io")), issue.PreferenceAccessFailedId},
		{"preference permission", stepErr(publish.ErrPreferenceAccessFailed, fs.ErrPermission), issue.PermissionDeniedId},
		{"allowed export failure", stepErr(publish.ErrExportFailed, nil), issue.ExportFailedId},
		{"version", stepErr(publish.ErrVersionParseFailed, nil), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyWarning(tt.err); got != tt.want {
				t.Errorf("classifyWarning() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyOpenError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"missing", fmt.Errorf("failed to read document descriptor: %w", fs.ErrNotExist), issue.DescriptorNotFoundId},
		{"permission", fmt.Errorf("failed to read document descriptor: %w", fs.ErrPermission), issue.PermissionDeniedId},
		{"invalid", &workspace.DescriptorError{Path: "x.toml", Err: errors.New("bad kind")}, issue.DescriptorInvalidId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyOpenError(tt.err); got != tt.want {
				t.Errorf("classifyOpenError() = %d, want %d", got, tt.want)
			}
			described := describeOpenError("x.toml", tt.err)
			if iss := issue.IssueOf(described); iss == nil || iss.Id() != tt.want {
				t.Errorf("describeOpenError() should link issue %d", tt.want)
			}
			if !errors.Is(described, tt.err) {
				t.Error("describeOpenError() should wrap the cause")
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	if got := exitCodeFor(fmt.Errorf("run: %w", context.Canceled)); got != types.ExitCanceled {
		t.Errorf("exitCodeFor(canceled) = %d, want %d", got, types.ExitCanceled)
	}
	if got := exitCodeFor(errors.New("boom")); got != types.ExitFailure {
		t.Errorf("exitCodeFor(other) = %d, want %d", got, types.ExitFailure)
	}
}
