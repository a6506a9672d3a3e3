// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sketchpub/sketchpub/internal/issue"
	"github.com/sketchpub/sketchpub/pkg/types"

	"github.com/spf13/cobra"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestNewServiceError_ValidConstruction(t *testing.T) {
	t.Parallel()

	err := errors.New("test error")
	svcErr := newServiceError(err, issue.ExportFailedId, "styled message")

	if !errors.Is(svcErr.Err, err) {
		t.Errorf("Err = %v, want %v", svcErr.Err, err)
	}
	if svcErr.IssueID != issue.ExportFailedId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.ExportFailedId)
	}
	if svcErr.StyledMessage != "styled message" {
		t.Errorf("StyledMessage = %q, want %q", svcErr.StyledMessage, "styled message")
	}
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, 0, "")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
}

func TestStyledServiceError(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("open document").
		WithResource("gear.toml").
		WithSuggestion("Check the descriptor path").
		Wrap(errors.New("no such file")).
		BuildError()

	svcErr := styledServiceError(ae, issue.DescriptorNotFoundId, false)
	for _, want := range []string{"Error:", "failed to open document", "gear.toml", "Check the descriptor path"} {
		if !strings.Contains(svcErr.StyledMessage, want) {
			t.Errorf("StyledMessage missing %q:\n%s", want, svcErr.StyledMessage)
		}
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	linked := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(errors.New("bad cue")).
		BuildError()

	tests := []struct {
		name       string
		svcErr     *ServiceError
		wantEmpty  bool
		wantPrefix string
		wantIssue  bool
	}{
		{name: "nil", svcErr: nil, wantEmpty: true},
		{name: "styled message only", svcErr: newServiceError(errors.New("x"), 0, "styled output\n"), wantPrefix: "styled output\n"},
		{name: "issue id", svcErr: newServiceError(errors.New("x"), issue.ExportFailedId, "msg\n"), wantPrefix: "msg\n", wantIssue: true},
		{name: "issue from chain", svcErr: newServiceError(linked, 0, ""), wantIssue: true},
		{name: "unknown id", svcErr: newServiceError(errors.New("x"), issue.Id(9999), ""), wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			renderServiceError(&buf, tt.svcErr)
			out := buf.String()

			if tt.wantEmpty {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if !strings.HasPrefix(out, tt.wantPrefix) {
				t.Errorf("output should start with %q, got %q", tt.wantPrefix, out)
			}
			if tt.wantIssue && len(out) <= len(tt.wantPrefix) {
				t.Error("expected the issue help to follow the styled message")
			}
		})
	}
}

func TestCommandFailed(t *testing.T) {
	t.Parallel()

	cause := errors.New("dialog crashed")
	c := &cobra.Command{Use: "publish"}
	var stderr bytes.Buffer

	err := commandFailed(c, &stderr, newServiceError(cause, 0, "rendered\n"), false)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("commandFailed() = %T, want *ExitError", err)
	}
	if exitErr.Code != types.ExitFailure {
		t.Errorf("Code = %d, want %d", exitErr.Code, types.ExitFailure)
	}
	if !errors.Is(err, cause) {
		t.Error("ExitError should wrap the cause")
	}
	if !c.SilenceErrors || !c.SilenceUsage {
		t.Error("commandFailed should silence cobra error and usage output")
	}
	if stderr.String() != "rendered\n" {
		t.Errorf("stderr = %q, want the styled message", stderr.String())
	}
}
