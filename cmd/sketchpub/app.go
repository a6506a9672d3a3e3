// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sketchpub/sketchpub/internal/config"
	"github.com/sketchpub/sketchpub/internal/publish"
	"github.com/sketchpub/sketchpub/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: all Cobra command handlers receive an App reference and
	// delegate through its service interfaces.
	App struct {
		Config    ConfigProvider
		Publisher PublishService
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Publisher PublishService
		// Stdin feeds the publish dialog; nil reads the process stdin.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// PublishRequest captures the publish command inputs. Zero values keep the
	// configured behavior.
	PublishRequest struct {
		// Descriptor is the workspace document to publish.
		Descriptor string
		// ConfigPath is the explicit --config value.
		ConfigPath string
		// Uploader overrides uploader.mode.
		Uploader config.UploaderMode
		// Script and ScriptFile replace the configured upload script.
		Script     string
		ScriptFile string
		// AllowExportErrors shows the dialog even when the export failed.
		AllowExportErrors bool
		// Revision overrides host.revision.
		Revision string
		Verbose  bool
	}

	// PublishService runs one publish workflow. The report is populated on
	// every path once the document has been opened, including fatal errors.
	PublishService interface {
		Publish(ctx context.Context, req PublishRequest) (publish.Report, error)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Publisher == nil {
		deps.Publisher = newPublishService(deps.Config, deps.Stdin, deps.Stdout, deps.Stderr)
	}

	return &App{
		Config:    deps.Config,
		Publisher: deps.Publisher,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}, nil
}

// loadConfig loads configuration honoring the explicit --config path.
func (a *App) loadConfig(ctx context.Context, configPath string) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
}
