// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	DescriptorNotFoundId Id = iota + 1
	DescriptorInvalidId
	ConfigLoadFailedId
	ExportFailedId
	DialogFailedId
	UploadScriptFailedId
	UploaderNotConfiguredId
	PreferenceAccessFailedId
	MetadataAccessFailedId
	ReadOnlyDocumentId
	PermissionDeniedId
)

const docsBase = "https://github.com/sketchpub/sketchpub/blob/main/docs/"

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is a documentation or external URL.
	HttpLink string

	// Issue is a catalog entry: Markdown help for one class of failure.
	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message followed by a "See also" list of its links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the entry with glamour. stylePath is a glamour style name
// ("dark", "light", "notty", ...) or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# Document not found!

The document descriptor you asked to publish does not exist or cannot be read.

## Things you can try:
- Check the path, relative paths resolve against the current directory
- Inspect the document first:
~~~
$ sketchpub inspect ./gear.toml
~~~`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	descriptorInvalidIssue = &Issue{
		id: DescriptorInvalidId,
		mdMsg: `
# Invalid document descriptor!

The descriptor was found but does not describe a valid document.

## Common causes:
- ` + "`kind`" + ` is not one of part, assembly, drawing, other
- A part must have exactly one component, an assembly at least one
- Two components share the same name
- An unknown key (descriptors are decoded strictly)

## Example:
~~~toml
kind = "assembly"
title = "gearbox"

[summary]
title = "Gearbox"

[[components]]
name = "housing"
mesh = "housing.stl"
~~~`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your sketchpub configuration file has errors.

## Things you can try:
- Show the effective configuration and where it was loaded from:
~~~
$ sketchpub config show
~~~
- Start over from the defaults:
~~~
$ sketchpub config init
~~~
- Check SKETCHPUB_* environment variables, they override the file`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	exportFailedIssue = &Issue{
		id: ExportFailedId,
		mdMsg: `
# Export failed!

The document could not be exported to STL, so nothing was uploaded.

## Things you can try:
- Only parts and assemblies can be exported; drawings cannot
- Check that every component mesh exists and is a valid STL file
- Mixed ASCII and binary meshes cannot be merged into one file
- Publish anyway and let the uploader decide:
~~~
$ sketchpub publish --allow-export-errors ./gearbox.toml
~~~`,
		docLinks: []HttpLink{docsBase + "publishing.md"},
	}

	dialogFailedIssue = &Issue{
		id: DialogFailedId,
		mdMsg: `
# The publish dialog failed!

The uploader could not show the publish dialog. The temporary export has been
removed and any forced preference restored.

## Things you can try:
- Run in a terminal, or enable accessible mode for plain prompts:
~~~
$ SKETCHPUB_UI_ACCESSIBLE=true sketchpub publish ./gear.toml
~~~
- Use a script uploader for non-interactive runs`,
		docLinks: []HttpLink{docsBase + "uploaders.md"},
	}

	uploadScriptFailedIssue = &Issue{
		id: UploadScriptFailedId,
		mdMsg: `
# Upload script failed!

The configured upload script exited with a non-zero status or printed an
invalid outcome.

## Things you can try:
- Run with ` + "`--verbose`" + ` to see the script's stderr
- A script signals success with exit status 0; it may print a TOML outcome:
~~~toml
confirmed = true
persist_metadata = false
[metadata]
title = "Gear v2"
~~~
- The artifact path is in $1 and $SKETCHPUB_ARTIFACT`,
		docLinks: []HttpLink{docsBase + "uploaders.md"},
		extLinks: []HttpLink{"https://github.com/mvdan/sh"},
	}

	uploaderNotConfiguredIssue = &Issue{
		id: UploaderNotConfiguredId,
		mdMsg: `
# No upload script configured!

Script mode and handoff need an upload script.

## Things you can try:
- Pass one on the command line:
~~~
$ sketchpub publish --uploader script --script 'curl -F file=@"$1" https://example.com' ./gear.toml
~~~
- Or set ` + "`uploader.script`" + ` or ` + "`uploader.script_file`" + ` in your config`,
		docLinks: []HttpLink{docsBase + "configuration.md", docsBase + "uploaders.md"},
	}

	preferenceAccessFailedIssue = &Issue{
		id: PreferenceAccessFailedId,
		mdMsg: `
# Could not access host preferences!

The "save assembly as one file" preference could not be read, forced or
restored. The publish still ran, but the assembly may have been exported as
separate files, or the preference may now hold a different value.

## Things you can try:
- Check the preferences file is writable:
~~~
$ sketchpub config show
~~~
- Set ` + "`host.preferences_file`" + ` to a location you own`,
		docLinks: []HttpLink{docsBase + "publishing.md"},
	}

	metadataAccessFailedIssue = &Issue{
		id: MetadataAccessFailedId,
		mdMsg: `
# Could not access document metadata!

Reading or saving the title, description or tags failed. The upload itself is
not affected.

## Things you can try:
- Check the document descriptor is writable
- Documents opened read-only never receive metadata edits`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	readOnlyDocumentIssue = &Issue{
		id: ReadOnlyDocumentId,
		mdMsg: `
# Document is read-only!

Metadata edits from the publish dialog were not saved because the document is
marked ` + "`read_only`" + `.

## Things you can try:
- Remove ` + "`read_only = true`" + ` from the descriptor and publish again`,
		docLinks: []HttpLink{docsBase + "documents.md"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

sketchpub could not create or remove a file it needs.

## Things you can try:
- Check the temp directory is writable, or set ` + "`temp_dir`" + ` in your config
- Check permissions on the document directory`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	issues = map[Id]*Issue{
		descriptorNotFoundIssue.Id():     descriptorNotFoundIssue,
		descriptorInvalidIssue.Id():      descriptorInvalidIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		exportFailedIssue.Id():           exportFailedIssue,
		dialogFailedIssue.Id():           dialogFailedIssue,
		uploadScriptFailedIssue.Id():     uploadScriptFailedIssue,
		uploaderNotConfiguredIssue.Id():  uploaderNotConfiguredIssue,
		preferenceAccessFailedIssue.Id(): preferenceAccessFailedIssue,
		metadataAccessFailedIssue.Id():   metadataAccessFailedIssue,
		readOnlyDocumentIssue.Id():       readOnlyDocumentIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
