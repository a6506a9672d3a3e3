// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sketchpub/sketchpub/internal/config"
	"github.com/sketchpub/sketchpub/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `sketchpub config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sketchpub configuration",
		Long: `Manage sketchpub configuration.

Configuration is stored in:
  - Linux: ~/.config/sketchpub/config.cue
  - macOS: ~/Library/Application Support/sketchpub/config.cue
  - Windows: %APPDATA%\sketchpub\config.cue

A config.cue in the current directory is used when the user file is absent.
Every key can be overridden with a SKETCHPUB_ environment variable, e.g.
SKETCHPUB_UPLOADER_MODE=script.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app, flags.configPath); err != nil {
				return commandFailed(cmd, app.stderr, styledServiceError(err, 0, flags.verbose), flags.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags.configPath)
			if err != nil {
				return commandFailed(cmd, app.stderr, styledServiceError(err, 0, flags.verbose), flags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, configPath string) error {
	opts := config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)}

	var (
		cfg    *config.Config
		source string
		err    error
	)
	if src, ok := app.Config.(config.Source); ok {
		cfg, source, err = src.LoadWithSource(ctx, opts)
	} else {
		cfg, err = app.Config.Load(ctx, opts)
	}
	if err != nil {
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(key string, v any) {
		fmt.Fprintf(w, "  %s: %s\n", key, valueStyle.Render(fmt.Sprint(v)))
	}
	optional := func(key, v, fallback string) {
		if v == "" {
			fmt.Fprintf(w, "  %s: %s\n", key, SubtitleStyle.Render(fallback))
			return
		}
		value(key, v)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	optional(keyStyle.Render("temp_dir"), string(cfg.TempDir), "(system temp directory)")

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	value("level", cfg.Log.Level)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	value("color_scheme", cfg.UI.ColorScheme)
	value("verbose", cfg.UI.Verbose)
	value("accessible", cfg.UI.Accessible)
	value("theme", cfg.UI.Theme)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("uploader"))
	value("mode", cfg.Uploader.Mode)
	if cfg.Uploader.Script != "" {
		value("script", fmt.Sprintf("(%d bytes inline)", len(cfg.Uploader.Script)))
	} else {
		optional("script_file", string(cfg.Uploader.ScriptFile), "(none)")
	}
	value("handoff", cfg.Uploader.Handoff)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("publish"))
	value("source_prefix", cfg.Publish.SourcePrefix)
	value("allow_export_errors", cfg.Publish.AllowExportErrors)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("host"))
	prefs, err := config.PreferencesPath(cfg)
	if err != nil {
		prefs = ""
	}
	optional("preferences_file", prefs, "(in memory)")
	optional("revision", cfg.Host.Revision, "(built-in default)")

	return nil
}

func initConfig(w io.Writer) error {
	cfgPath, created, err := config.CreateDefaultConfig()
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(w, "Config file already exists at: %s\n", cfgPath)
		return nil
	}
	fmt.Fprintf(w, "%s Created default config file at: %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(w io.Writer) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, cfgPath)
	return nil
}
