// SPDX-License-Identifier: MPL-2.0

package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sketchpub/sketchpub/pkg/hostapi"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Environment variables exported to upload scripts.
const (
	EnvArtifact    = "SKETCHPUB_ARTIFACT"
	EnvTitle       = "SKETCHPUB_TITLE"
	EnvDescription = "SKETCHPUB_DESCRIPTION"
	EnvTags        = "SKETCHPUB_TAGS"
	EnvSource      = "SKETCHPUB_SOURCE"
	EnvToken       = "SKETCHPUB_TOKEN"
	EnvThumbnail   = "SKETCHPUB_THUMBNAIL"
)

// maxScriptFileSize bounds script files read by NewScriptFromFile.
const maxScriptFileSize = 256 << 10

var (
	// ErrEmptyScript is returned when no script text is configured.
	ErrEmptyScript = errors.New("upload script is empty")
	// ErrScriptFailed is the sentinel error wrapped by ScriptExitError.
	ErrScriptFailed = errors.New("upload script failed")
	// ErrInvalidOutcome is returned when the script's stdout is not a TOML outcome.
	ErrInvalidOutcome = errors.New("upload script printed an invalid outcome")
)

type (
	// ScriptOptions configures a Script.
	ScriptOptions struct {
		// Dir is the script's working directory; empty uses the current one.
		Dir string
		// Env is the base environment; nil inherits the process environment.
		Env []string
		// Stderr receives the script's stderr; nil discards it.
		Stderr io.Writer
	}

	// Script runs an upload hook in the embedded POSIX shell interpreter.
	//
	// The request is exported as SKETCHPUB_* variables and the artifact path is
	// also passed as $1. On exit status 0 the script may print a TOML outcome:
	//
	//	confirmed = true
	//	persist_metadata = true
	//	[metadata]
	//	title = "..."
	//
	// Keys it omits keep their defaults: confirmed, not persisted, metadata as
	// sent. A non-zero exit status is a failure of the uploader.
	Script struct {
		name string
		prog *syntax.File
		opts ScriptOptions
	}

	// ScriptExitError reports a non-zero script exit status.
	// It wraps ErrScriptFailed for errors.Is() compatibility.
	ScriptExitError struct {
		Code   int
		Stderr string
	}
)

var _ hostapi.Uploader = (*Script)(nil)

// NewScript parses src. Syntax errors are reported here rather than when the
// dialog would open.
func NewScript(src string, opts ScriptOptions) (*Script, error) {
	return newScript("upload-script", src, opts)
}

// NewScriptFromFile reads and parses the script at path.
func NewScriptFromFile(path string, opts ScriptOptions) (*Script, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload script: %w", err)
	}
	if info.Size() > maxScriptFileSize {
		return nil, fmt.Errorf("upload script %s is %d bytes, limit is %d", path, info.Size(), maxScriptFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload script: %w", err)
	}
	return newScript(path, string(data), opts)
}

func newScript(name, src string, opts ScriptOptions) (*Script, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyScript
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("upload script syntax error: %w", err)
	}
	return &Script{name: name, prog: prog, opts: opts}, nil
}

// ShowPublishDialog runs the script for req and decodes its outcome.
func (s *Script) ShowPublishDialog(ctx context.Context, req hostapi.DialogRequest) (hostapi.UploadOutcome, error) {
	if err := ctx.Err(); err != nil {
		return hostapi.UploadOutcome{}, err
	}

	var stdout, stderr bytes.Buffer
	var errOut io.Writer = &stderr
	if s.opts.Stderr != nil {
		errOut = io.MultiWriter(&stderr, s.opts.Stderr)
	}

	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(s.environ(req)...)),
		interp.StdIO(nil, &stdout, errOut),
		// "--" keeps paths starting with '-' from being read as shell options.
		interp.Params("--", req.ArtifactPath),
	}
	if s.opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(s.opts.Dir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return hostapi.UploadOutcome{}, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, s.prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return hostapi.UploadOutcome{}, &ScriptExitError{Code: int(status), Stderr: strings.TrimSpace(stderr.String())}
		}
		return hostapi.UploadOutcome{}, fmt.Errorf("%w: %w", ErrScriptFailed, err)
	}

	return parseOutcome(stdout.Bytes(), req.Metadata)
}

func (s *Script) environ(req hostapi.DialogRequest) []string {
	base := s.opts.Env
	if base == nil {
		base = os.Environ()
	}
	env := make([]string, 0, len(base)+7)
	env = append(env, base...)
	env = append(env,
		EnvArtifact+"="+req.ArtifactPath,
		EnvTitle+"="+req.Metadata.Title,
		EnvDescription+"="+req.Metadata.Description,
		EnvTags+"="+req.Metadata.Tags,
		EnvSource+"="+req.SourceTag,
	)
	if req.AuthToken != nil {
		env = append(env, EnvToken+"="+*req.AuthToken)
	}
	if req.ThumbnailPath != nil {
		env = append(env, EnvThumbnail+"="+*req.ThumbnailPath)
	}
	return env
}

// parseOutcome decodes the script's stdout. Empty output confirms the upload
// with the metadata unchanged.
func parseOutcome(out []byte, sent hostapi.Metadata) (hostapi.UploadOutcome, error) {
	outcome := hostapi.UploadOutcome{Confirmed: true, EditedMetadata: sent}
	if len(bytes.TrimSpace(out)) == 0 {
		return outcome, nil
	}
	dec := toml.NewDecoder(bytes.NewReader(out))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&outcome); err != nil {
		return hostapi.UploadOutcome{}, fmt.Errorf("%w: %w", ErrInvalidOutcome, err)
	}
	return outcome, nil
}

// Error implements the error interface for ScriptExitError.
func (e *ScriptExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("upload script exited with status %d", e.Code)
	}
	return fmt.Sprintf("upload script exited with status %d: %s", e.Code, e.Stderr)
}

// Unwrap returns ErrScriptFailed for errors.Is() compatibility.
func (e *ScriptExitError) Unwrap() error { return ErrScriptFailed }
