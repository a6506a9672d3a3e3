// SPDX-License-Identifier: MPL-2.0

package uploader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

func testRequest() hostapi.DialogRequest {
	return hostapi.DialogRequest{
		ArtifactPath: "/tmp/sketchpub-1234.stl",
		Metadata:     hostapi.Metadata{Title: "gear", Description: "spur gear", Tags: "gear"},
		SourceTag:    "solidworks-2022",
	}
}

func runScript(t *testing.T, src string, req hostapi.DialogRequest) (hostapi.UploadOutcome, error) {
	t.Helper()
	s, err := NewScript(src, ScriptOptions{Env: []string{"PATH=" + os.Getenv("PATH")}})
	if err != nil {
		t.Fatalf("NewScript() error: %v", err)
	}
	return s.ShowPublishDialog(context.Background(), req)
}

func TestScript_SilentSuccessConfirms(t *testing.T) {
	t.Parallel()

	req := testRequest()
	got, err := runScript(t, `test -n "$SKETCHPUB_ARTIFACT"`, req)
	if err != nil {
		t.Fatalf("ShowPublishDialog() error: %v", err)
	}
	want := hostapi.UploadOutcome{Confirmed: true, EditedMetadata: req.Metadata}
	if got != want {
		t.Errorf("outcome = %+v, want %+v", got, want)
	}
}

func TestScript_Environment(t *testing.T) {
	t.Parallel()

	token := "s3cret"
	req := testRequest()
	req.AuthToken = &token

	script := `
test "$1" = "$SKETCHPUB_ARTIFACT" || exit 10
test "$SKETCHPUB_TITLE" = "gear" || exit 11
test "$SKETCHPUB_DESCRIPTION" = "spur gear" || exit 12
test "$SKETCHPUB_TAGS" = "gear" || exit 13
test "$SKETCHPUB_SOURCE" = "solidworks-2022" || exit 14
test "$SKETCHPUB_TOKEN" = "s3cret" || exit 15
test -z "$SKETCHPUB_THUMBNAIL" || exit 16
`
	if _, err := runScript(t, script, req); err != nil {
		t.Fatalf("ShowPublishDialog() error: %v", err)
	}
}

func TestScript_OutcomeDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   hostapi.UploadOutcome
	}{
		{
			name:   "declined",
			script: `echo 'confirmed = false'`,
			want:   hostapi.UploadOutcome{Confirmed: false, EditedMetadata: testRequest().Metadata},
		},
		{
			name: "edited and persisted",
			script: `printf 'persist_metadata = true\n[metadata]\ntitle = "%s v2"\n' "$SKETCHPUB_TITLE"
`,
			want: hostapi.UploadOutcome{
				Confirmed:            true,
				PersistMetadataEdits: true,
				EditedMetadata:       hostapi.Metadata{Title: "gear v2", Description: "spur gear", Tags: "gear"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := runScript(t, tt.script, testRequest())
			if err != nil {
				t.Fatalf("ShowPublishDialog() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("outcome = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScript_Failures(t *testing.T) {
	t.Parallel()

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()
		_, err := runScript(t, "echo 'quota exceeded' >&2\nexit 3", testRequest())
		if !errors.Is(err, ErrScriptFailed) {
			t.Fatalf("error = %v, want ErrScriptFailed", err)
		}
		var exitErr *ScriptExitError
		if !errors.As(err, &exitErr) || exitErr.Code != 3 || exitErr.Stderr != "quota exceeded" {
			t.Errorf("exit error = %#v", err)
		}
	})

	t.Run("invalid outcome", func(t *testing.T) {
		t.Parallel()
		_, err := runScript(t, `echo "uploading..."`, testRequest())
		if !errors.Is(err, ErrInvalidOutcome) {
			t.Errorf("error = %v, want ErrInvalidOutcome", err)
		}
	})

	t.Run("unknown outcome key", func(t *testing.T) {
		t.Parallel()
		_, err := runScript(t, `echo 'uploaded = true'`, testRequest())
		if !errors.Is(err, ErrInvalidOutcome) {
			t.Errorf("error = %v, want ErrInvalidOutcome", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		s, err := NewScript("true", ScriptOptions{})
		if err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := s.ShowPublishDialog(ctx, testRequest()); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestNewScript_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewScript("  \n", ScriptOptions{}); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("NewScript(blank) error = %v, want ErrEmptyScript", err)
	}
	if _, err := NewScript("if then fi (", ScriptOptions{}); err == nil || !strings.Contains(err.Error(), "syntax") {
		t.Errorf("NewScript(bad syntax) error = %v", err)
	}
	if _, err := NewScriptFromFile(filepath.Join(t.TempDir(), "missing.sh"), ScriptOptions{}); err == nil {
		t.Error("NewScriptFromFile(missing) expected error")
	}
}

func TestNewScriptFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "upload.sh")
	if err := os.WriteFile(path, []byte("echo 'confirmed = false'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewScriptFromFile(path, ScriptOptions{Dir: dir, Env: []string{}})
	if err != nil {
		t.Fatalf("NewScriptFromFile() error: %v", err)
	}
	got, err := s.ShowPublishDialog(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ShowPublishDialog() error: %v", err)
	}
	if got.Confirmed {
		t.Error("script declined but outcome is confirmed")
	}
}
