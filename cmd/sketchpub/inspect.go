// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sketchpub/sketchpub/internal/config"
	"github.com/sketchpub/sketchpub/internal/issue"
	"github.com/sketchpub/sketchpub/internal/metadata"
	"github.com/sketchpub/sketchpub/internal/publish"
	"github.com/sketchpub/sketchpub/internal/workspace"

	"github.com/spf13/cobra"
)

type (
	// inspection is what `sketchpub inspect` reports about a document.
	inspection struct {
		Path        string
		Kind        string
		Metadata    metadataView
		TitleSource metadata.TitleSource
		SourceTag   publish.SourceTag
		Components  []componentView
		// Problems are non-fatal read failures.
		Problems []error
	}

	metadataView struct {
		Title, Description, Tags string
	}

	componentView struct {
		Name      string
		Mesh      string
		Format    workspace.STLFormat
		Triangles int
		Err       error
	}
)

// newInspectCommand creates the `sketchpub inspect` command.
func newInspectCommand(app *App, flags *rootFlags) *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:   "inspect <descriptor>",
		Short: "Show what a publish run would send, without exporting",
		Long: `Show the document kind, the metadata a publish run would hand to the
uploader (and where the title came from), the source tag and the component
meshes. Nothing is exported and no preference is changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inspectDocument(cmd.Context(), app, flags.configPath, args[0], revision)
			if err != nil {
				return commandFailed(cmd, app.stderr, err, flags.verbose)
			}
			renderInspection(app.stdout, ins)
			return nil
		},
	}

	cmd.Flags().StringVar(&revision, "revision", "", "host revision string, e.g. 30.2.1")

	return cmd
}

// inspectDocument opens path against an in-memory host, so the configured
// preferences file is never read or written.
func inspectDocument(ctx context.Context, app *App, configPath, path, revision string) (inspection, error) {
	cfg, err := app.loadConfig(ctx, configPath)
	if err != nil {
		return inspection{}, styledServiceError(err, issue.ConfigLoadFailedId, false)
	}
	if revision == "" {
		revision = cfg.Host.Revision
	}

	host := workspace.NewHost("", revision)
	doc, err := workspace.Open(path, host)
	if err != nil {
		return inspection{}, styledServiceError(describeOpenError(path, err), classifyOpenError(err), false)
	}

	ins := inspection{Path: doc.DescriptorPath(), Kind: doc.Kind().String()}

	md, src, err := metadata.ReadWithSource(doc)
	if err != nil {
		ins.Problems = append(ins.Problems, err)
	}
	ins.Metadata = metadataView{Title: md.Title, Description: md.Description, Tags: md.Tags}
	ins.TitleSource = src

	tag, err := publish.DeriveSourceTag(sourcePrefix(cfg), host.RevisionNumber())
	if err != nil {
		ins.Problems = append(ins.Problems, err)
	}
	ins.SourceTag = tag

	for _, c := range doc.Components() {
		view := componentView{Name: c.Name, Mesh: c.Mesh}
		data, err := os.ReadFile(c.Mesh)
		if err == nil {
			var info workspace.MeshInfo
			info, err = workspace.InspectSTL(data)
			view.Format, view.Triangles = info.Format, info.Triangles
		}
		view.Err = err
		ins.Components = append(ins.Components, view)
	}
	return ins, nil
}

func sourcePrefix(cfg *config.Config) string {
	return string(cfg.Publish.SourcePrefix)
}

func renderInspection(w io.Writer, ins inspection) {
	row := func(key, value string) {
		fmt.Fprintf(w, "  %s %s\n", reportKeyStyle.Render(key), value)
	}

	fmt.Fprintln(w, TitleStyle.Render("Document")+" "+SubtitleStyle.Render(ins.Path))
	row("Kind", ins.Kind)
	row("Title", quoteOrNone(ins.Metadata.Title)+" "+SubtitleStyle.Render("(from "+string(ins.TitleSource)+")"))
	row("Description", quoteOrNone(ins.Metadata.Description))
	row("Tags", quoteOrNone(ins.Metadata.Tags))
	row("Source tag", ins.SourceTag.String())

	if len(ins.Components) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Components"))
		for _, c := range ins.Components {
			if c.Err != nil {
				fmt.Fprintf(w, "  %s %s %s\n", ErrorStyle.Render("✗"), CmdStyle.Render(c.Name), ErrorStyle.Render(c.Err.Error()))
				continue
			}
			fmt.Fprintf(w, "  %s %s %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(c.Name),
				SubtitleStyle.Render(fmt.Sprintf("%s, %d triangles", c.Format, c.Triangles)))
		}
	}

	if len(ins.Problems) > 0 {
		fmt.Fprintln(w)
		for _, p := range ins.Problems {
			fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("!"), p)
		}
	}
}
