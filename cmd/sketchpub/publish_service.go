// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/sketchpub/sketchpub/internal/artifact"
	"github.com/sketchpub/sketchpub/internal/config"
	"github.com/sketchpub/sketchpub/internal/issue"
	"github.com/sketchpub/sketchpub/internal/publish"
	"github.com/sketchpub/sketchpub/internal/uploader"
	"github.com/sketchpub/sketchpub/internal/workspace"
	"github.com/sketchpub/sketchpub/pkg/hostapi"
	"github.com/sketchpub/sketchpub/pkg/types"

	"github.com/charmbracelet/log"
)

// appPublishService implements PublishService against the workspace host.
// Each call loads configuration, opens the document and builds a fresh
// orchestrator, so no state is shared between runs.
type appPublishService struct {
	config ConfigProvider
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newPublishService(cfg ConfigProvider, stdin io.Reader, stdout, stderr io.Writer) *appPublishService {
	return &appPublishService{config: cfg, stdin: stdin, stdout: stdout, stderr: stderr}
}

// Publish runs the workflow for req.Descriptor. Failures are returned as
// *ServiceError carrying the matching issue catalog entry.
func (s *appPublishService) Publish(ctx context.Context, req PublishRequest) (publish.Report, error) {
	cfg, err := s.config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(req.ConfigPath)})
	if err != nil {
		return publish.Report{}, s.fail(err, issue.ConfigLoadFailedId, req.Verbose)
	}
	req.applyTo(cfg)
	if valid, errs := cfg.IsValid(); !valid {
		err := errors.Join(errs...)
		if errors.Is(err, config.ErrMissingUploadScript) {
			return publish.Report{}, s.fail(err, issue.UploaderNotConfiguredId, req.Verbose)
		}
		return publish.Report{}, s.fail(err, issue.ConfigLoadFailedId, req.Verbose)
	}

	logger := newLogger(s.stderr, cfg.Log.Level, cfg.UI.Verbose)

	prefsPath, err := config.PreferencesPath(cfg)
	if err != nil {
		return publish.Report{}, s.fail(err, issue.PreferenceAccessFailedId, req.Verbose)
	}
	host := workspace.NewHost(prefsPath, cfg.Host.Revision)
	logger.Debug("workspace host ready", "revision", host.RevisionNumber(), "preferences", prefsPath)

	doc, err := workspace.Open(req.Descriptor, host)
	if err != nil {
		return publish.Report{}, s.fail(describeOpenError(req.Descriptor, err), classifyOpenError(err), req.Verbose)
	}

	up, err := s.newUploader(cfg)
	if err != nil {
		return publish.Report{}, s.fail(err, issue.UploadScriptFailedId, req.Verbose)
	}

	orch, err := publish.New(host, up, publish.Options{
		Artifacts:         artifact.NewManager(string(cfg.TempDir)),
		SourcePrefix:      string(cfg.Publish.SourcePrefix),
		AllowExportErrors: cfg.Publish.AllowExportErrors,
		Logger:            logger,
	})
	if err != nil {
		return publish.Report{}, s.fail(err, 0, req.Verbose)
	}

	rep, err := orch.Run(ctx, doc)
	if err != nil {
		return rep, s.fail(err, classifyPublishError(err), req.Verbose)
	}
	return rep, nil
}

// newUploader builds the uploader selected by cfg.Uploader.
func (s *appPublishService) newUploader(cfg *config.Config) (hostapi.Uploader, error) {
	var script *uploader.Script
	if cfg.Uploader.HasScript() {
		opts := uploader.ScriptOptions{Stderr: s.stderr}
		var err error
		if cfg.Uploader.ScriptFile != "" {
			script, err = uploader.NewScriptFromFile(string(cfg.Uploader.ScriptFile), opts)
		} else {
			script, err = uploader.NewScript(cfg.Uploader.Script, opts)
		}
		if err != nil {
			return nil, err
		}
	}

	if cfg.Uploader.Mode == config.UploaderScript {
		return script, nil
	}

	opts := uploader.DialogOptions{
		Theme:      uploader.Theme(cfg.UI.Theme),
		Accessible: cfg.UI.Accessible,
		Input:      s.stdin,
		Output:     s.stdout,
	}
	if cfg.Uploader.Handoff && script != nil {
		opts.Handoff = script
	}
	return uploader.NewDialog(opts), nil
}

func (s *appPublishService) fail(err error, id issue.Id, verbose bool) error {
	return styledServiceError(err, id, verbose)
}

// applyTo overlays the request's flag values on cfg.
func (r PublishRequest) applyTo(cfg *config.Config) {
	if r.Uploader != "" {
		cfg.Uploader.Mode = r.Uploader
	}
	if r.Script != "" || r.ScriptFile != "" {
		cfg.Uploader.Script = r.Script
		cfg.Uploader.ScriptFile = config.OptionalPath(r.ScriptFile)
	}
	if r.AllowExportErrors {
		cfg.Publish.AllowExportErrors = true
	}
	if r.Revision != "" {
		cfg.Host.Revision = r.Revision
	}
	if r.Verbose {
		cfg.UI.Verbose = true
	}
}

// newLogger creates the CLI logger. Verbose output lowers the level to debug
// so state transitions are shown.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "sketchpub",
		Level:  lvl,
	})
}
