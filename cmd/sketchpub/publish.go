// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sketchpub/sketchpub/internal/config"
	"github.com/sketchpub/sketchpub/internal/issue"
	"github.com/sketchpub/sketchpub/internal/publish"

	"github.com/spf13/cobra"
)

// newPublishCommand creates the `sketchpub publish` command.
func newPublishCommand(app *App, flags *rootFlags) *cobra.Command {
	var (
		mode              string
		script            string
		scriptFile        string
		allowExportErrors bool
		revision          string
	)

	cmd := &cobra.Command{
		Use:   "publish <descriptor>",
		Short: "Export a document and hand it to the uploader",
		Long: `Export a workspace document to STL and hand it to the uploader.

The document descriptor is a TOML or CUE file. Assemblies are exported as a
single merged mesh; the host merge preference is forced for the export and
restored afterwards. The uploader is the interactive publish dialog or an
upload script run in the embedded shell.

` + SubtitleStyle.Render("Examples:") + `
  sketchpub publish gear.toml
  sketchpub publish bracket.cue --uploader script --script-file upload.sh
  sketchpub publish widget.toml --revision 31.0.0 --allow-export-errors`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := PublishRequest{
				Descriptor:        args[0],
				ConfigPath:        flags.configPath,
				Uploader:          config.UploaderMode(mode),
				Script:            script,
				ScriptFile:        scriptFile,
				AllowExportErrors: allowExportErrors,
				Revision:          revision,
				Verbose:           flags.verbose,
			}
			if mode != "" {
				if valid, errs := req.Uploader.IsValid(); !valid {
					return newUsageError(errs[0])
				}
			}
			return runPublish(cmd, app, req)
		},
	}

	cmd.Flags().StringVar(&mode, "uploader", "", "uploader to use: dialog or script (default from config)")
	cmd.Flags().StringVar(&script, "script", "", "inline upload script")
	cmd.Flags().StringVar(&scriptFile, "script-file", "", "path to an upload script")
	cmd.Flags().BoolVar(&allowExportErrors, "allow-export-errors", false, "show the uploader even when the export reports errors")
	cmd.Flags().StringVar(&revision, "revision", "", "host revision string, e.g. 30.2.1")
	cmd.MarkFlagsMutuallyExclusive("script", "script-file")

	return cmd
}

func runPublish(cmd *cobra.Command, app *App, req PublishRequest) error {
	rep, err := app.Publisher.Publish(cmd.Context(), req)
	if len(rep.States) > 0 {
		renderReport(app.stdout, rep, req.Verbose)
	}
	if err != nil {
		return commandFailed(cmd, app.stderr, err, req.Verbose)
	}
	return nil
}

// renderReport prints the outcome of a run. Verbose output adds the visited
// states and the help text of each warning.
func renderReport(w io.Writer, rep publish.Report, verbose bool) {
	fmt.Fprintln(w, TitleStyle.Render("Publish report"))

	row := func(key, value string) {
		fmt.Fprintf(w, "  %s %s\n", reportKeyStyle.Render(key), value)
	}

	row("Document", rep.Kind.String())
	if rep.ArtifactPath != "" {
		released := WarningStyle.Render("(left behind)")
		if rep.ArtifactReleased {
			released = SubtitleStyle.Render("(removed)")
		}
		row("Artifact", rep.ArtifactPath+" "+released)
	}
	row("Export", rep.ExportStatus.String())
	tag := rep.SourceTag.String()
	if tag == "" {
		tag = SubtitleStyle.Render("(none)")
	}
	row("Source tag", tag)
	row("Title", quoteOrNone(rep.Metadata.Title))
	if verbose {
		row("Description", quoteOrNone(rep.Metadata.Description))
		row("Tags", quoteOrNone(rep.Metadata.Tags))
	}
	if rep.PreferenceForced {
		state := WarningStyle.Render("forced, not restored")
		if rep.PreferenceRestored {
			state = "forced, restored"
		}
		row("Merge pref", state)
	}
	if rep.MetadataCommitted {
		row("Metadata", SuccessStyle.Render("saved to document"))
	}
	row("Result", renderResult(rep.Result()))

	if verbose {
		names := make([]string, len(rep.States))
		for i, s := range rep.States {
			names[i] = s.String()
		}
		row("States", VerboseStyle.Render(strings.Join(names, " -> ")))
	}

	if len(rep.Warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("Warnings (%d):", len(rep.Warnings))))
	for _, warning := range rep.Warnings {
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("!"), warning)
		if !verbose {
			continue
		}
		if entry := issue.Get(classifyWarning(warning)); entry != nil {
			if rendered, err := entry.Render("dark"); err == nil {
				fmt.Fprint(w, rendered)
			}
		}
	}
}

func renderResult(r publish.Result) string {
	switch r {
	case publish.ResultUploaded:
		return SuccessStyle.Render("✓ " + r.String())
	case publish.ResultCancelled:
		return WarningStyle.Render("- " + r.String())
	default:
		return ErrorStyle.Render("✗ " + r.String())
	}
}

func quoteOrNone(s string) string {
	if s == "" {
		return SubtitleStyle.Render("(none)")
	}
	return fmt.Sprintf("%q", s)
}
