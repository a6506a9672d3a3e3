// SPDX-License-Identifier: MPL-2.0

package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sketchpub/sketchpub/pkg/hostapi"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// ErrEmptyTitle is reported by the dialog when the title is cleared.
var ErrEmptyTitle = errors.New("title must not be empty")

type (
	// Theme is the visual theme of the dialog.
	Theme string

	// DialogOptions configures a Dialog.
	DialogOptions struct {
		Theme Theme
		// Accessible renders the form as plain prompts for screen readers and
		// non-terminal input.
		Accessible bool
		// Input and Output default to the process stdin and stdout.
		Input  io.Reader
		Output io.Writer
		// Handoff receives the request with the edited metadata after the user
		// confirms. Its outcome decides whether the upload happened.
		Handoff hostapi.Uploader
	}

	// Dialog is a modal terminal form that lets the user review the export,
	// edit the metadata and confirm the upload.
	Dialog struct {
		opts DialogOptions
		// run executes the form; replaced in tests.
		run func(ctx context.Context, form *huh.Form, v *dialogValues) error
	}

	// dialogValues holds the form fields.
	dialogValues struct {
		title       string
		description string
		tags        string
		confirm     bool
		persist     bool
	}
)

var _ hostapi.Uploader = (*Dialog)(nil)

// NewDialog creates a Dialog. Accessible mode is forced on when stdin is not a
// terminal.
func NewDialog(opts DialogOptions) *Dialog {
	if opts.Theme == "" {
		opts.Theme = ThemeDefault
	}
	if opts.Input == nil && !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Accessible = true
	}
	return &Dialog{
		opts: opts,
		run: func(ctx context.Context, form *huh.Form, _ *dialogValues) error {
			return form.RunWithContext(ctx)
		},
	}
}

// ShowPublishDialog blocks until the user submits or aborts the form. An
// abort (Esc, Ctrl+C) is a declined upload, not an error.
func (d *Dialog) ShowPublishDialog(ctx context.Context, req hostapi.DialogRequest) (hostapi.UploadOutcome, error) {
	v := &dialogValues{
		title:       req.Metadata.Title,
		description: req.Metadata.Description,
		tags:        req.Metadata.Tags,
		confirm:     true,
	}

	form := d.newForm(req, v)
	if err := d.run(ctx, form, v); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return hostapi.UploadOutcome{}, nil
		}
		return hostapi.UploadOutcome{}, fmt.Errorf("publish dialog: %w", err)
	}

	outcome := hostapi.UploadOutcome{
		Confirmed:            v.confirm,
		PersistMetadataEdits: v.persist,
		EditedMetadata: hostapi.Metadata{
			Title:       strings.TrimSpace(v.title),
			Description: strings.TrimSpace(v.description),
			Tags:        strings.TrimSpace(v.tags),
		},
	}
	if !outcome.Confirmed || d.opts.Handoff == nil {
		return outcome, nil
	}

	handoffReq := req
	handoffReq.Metadata = outcome.EditedMetadata
	result, err := d.opts.Handoff.ShowPublishDialog(ctx, handoffReq)
	if err != nil {
		return hostapi.UploadOutcome{}, fmt.Errorf("upload handoff: %w", err)
	}
	outcome.Confirmed = result.Confirmed
	return outcome, nil
}

func (d *Dialog) newForm(req hostapi.DialogRequest, v *dialogValues) *huh.Form {
	summary := fmt.Sprintf("File: %s\nSource: %s", req.ArtifactPath, req.SourceTag)
	if req.ThumbnailPath != nil {
		summary += "\nThumbnail: " + *req.ThumbnailPath
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Publish model").
				Description(summary),
			huh.NewInput().
				Title("Title").
				Value(&v.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return ErrEmptyTitle
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Lines(4).
				Value(&v.description),
			huh.NewInput().
				Title("Tags").
				Description("Space-separated keywords").
				Value(&v.tags),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Upload this model?").
				Affirmative("Upload").
				Negative("Cancel").
				Value(&v.confirm),
			huh.NewConfirm().
				Title("Save edited metadata back to the document?").
				Value(&v.persist),
		),
	).
		WithTheme(huhTheme(d.opts.Theme)).
		WithAccessible(d.opts.Accessible)

	if d.opts.Input != nil {
		form = form.WithInput(d.opts.Input)
	}
	if d.opts.Output != nil {
		form = form.WithOutput(d.opts.Output)
	}
	return form
}

// IsValid returns whether the Theme is one of the known themes.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true, nil
	default:
		return false, []error{fmt.Errorf("invalid theme %q (valid: default, charm, dracula, catppuccin, base16)", string(t))}
	}
}

func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}
