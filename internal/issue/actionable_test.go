// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "open document"},
			expected: "failed to open document",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "open document", Resource: "./gear.toml"},
			expected: "failed to open document: ./gear.toml",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "load configuration", Cause: errors.New("syntax error at line 5")},
			expected: "failed to load configuration: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "open document",
				Resource:  "./gear.toml",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to open document: ./gear.toml: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "publish", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "publish"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple error non-verbose",
			err:      &ActionableError{Operation: "load configuration"},
			contains: []string{"failed to load configuration"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "open document",
				Resource:    "./gear.toml",
				Suggestions: []string{"Run 'sketchpub inspect ./gear.toml'", "Check file permissions"},
			},
			contains: []string{
				"failed to open document",
				"./gear.toml",
				"• Run 'sketchpub inspect ./gear.toml'",
				"• Check file permissions",
			},
		},
		{
			name:     "error chain in verbose mode",
			err:      &ActionableError{Operation: "publish", Cause: fmt.Errorf("export: %w", errors.New("mesh missing"))},
			verbose:  true,
			contains: []string{"Error chain:", "1. export: mesh missing", "2. mesh missing"},
		},
		{
			name:     "no error chain in non-verbose mode",
			err:      &ActionableError{Operation: "publish", Cause: errors.New("mesh missing")},
			excludes: []string{"Error chain:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Format() should not contain %q:\n%s", bad, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("gear.toml").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	cause := errors.New("parse error")
	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Check syntax").
		WithSuggestions("Verify permissions", "Run 'sketchpub config init'").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		Build()
	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load configuration" || ae.Resource != "config.cue" {
		t.Errorf("context = %q %q", ae.Operation, ae.Resource)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("Build() should keep the cause")
	}
	if ae.IssueId != ConfigLoadFailedId {
		t.Errorf("IssueId = %d, want %d", ae.IssueId, ConfigLoadFailedId)
	}

	var asErr *ActionableError
	if !errors.As(NewErrorContext().WithOperation("publish").BuildError(), &asErr) {
		t.Error("BuildError() should return *ActionableError")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("export document").WithResource("gearbox.toml")
	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()
	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("reused context should preserve operation")
	}
}

func TestWrapHelpers(t *testing.T) {
	t.Parallel()

	cause := errors.New("original error")
	if err := WrapWithOperation(cause, "publish"); err.Operation != "publish" || !errors.Is(err, cause) {
		t.Errorf("WrapWithOperation() = %+v", err)
	}
	if err := WrapWithContext(cause, "open document", "gear.toml"); err.Resource != "gear.toml" || !errors.Is(err, cause) {
		t.Errorf("WrapWithContext() = %+v", err)
	}
	if WrapWithOperation(nil, "publish") != nil || WrapWithContext(nil, "publish", "x") != nil {
		t.Error("wrapping nil should return nil")
	}
	if err := NewActionableError("publish"); err.Operation != "publish" || err.Cause != nil {
		t.Errorf("NewActionableError() = %+v", err)
	}
}

func TestIssueOf(t *testing.T) {
	t.Parallel()

	linked := NewErrorContext().WithOperation("publish").WithIssue(ExportFailedId).Wrap(errors.New("mesh missing")).BuildError()
	unlinked := NewErrorContext().WithOperation("publish").Wrap(errors.New("boom")).BuildError()
	nested := NewErrorContext().WithOperation("run").Wrap(fmt.Errorf("outer: %w", linked)).BuildError()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 0},
		{"linked", linked, ExportFailedId},
		{"wrapped linked", fmt.Errorf("cli: %w", linked), ExportFailedId},
		{"unlinked", unlinked, 0},
		{"nested under unlinked", nested, ExportFailedId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IssueOf(tt.err)
			if tt.want == 0 {
				if got != nil {
					t.Errorf("IssueOf() = %d, want nil", got.Id())
				}
				return
			}
			if got == nil || got.Id() != tt.want {
				t.Errorf("IssueOf() = %v, want %d", got, tt.want)
			}
		})
	}
}
