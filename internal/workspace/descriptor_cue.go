// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sketchpub/sketchpub/pkg/cueutil"
)

//go:embed document_schema.cue
var documentSchema []byte

// ParseCUEDescriptor decodes descriptor CUE against the #Document schema and
// then applies the same validation as TOML descriptors.
func ParseCUEDescriptor(data []byte, filename string) (*Descriptor, error) {
	res, err := cueutil.ParseAndDecode[Descriptor](documentSchema, data, "#Document",
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(maxDescriptorSize),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}
	d := res.Value
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func isCUE(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cue")
}

// encodeCUE renders d as a CUE descriptor.
func encodeCUE(d *Descriptor) string {
	var sb strings.Builder
	sb.WriteString("// sketchpub document descriptor\n\n")
	fmt.Fprintf(&sb, "kind: %q\n", d.Kind)
	if d.Path != "" {
		fmt.Fprintf(&sb, "path: %q\n", d.Path)
	}
	if d.Title != "" {
		fmt.Fprintf(&sb, "title: %q\n", d.Title)
	}
	if d.ReadOnly {
		sb.WriteString("read_only: true\n")
	}

	sb.WriteString("\nsummary: {\n")
	fmt.Fprintf(&sb, "\ttitle:       %q\n", d.Summary.Title)
	fmt.Fprintf(&sb, "\tdescription: %q\n", d.Summary.Description)
	fmt.Fprintf(&sb, "\ttags:        %q\n", d.Summary.Tags)
	sb.WriteString("}\n")

	if len(d.Components) > 0 {
		sb.WriteString("\ncomponents: [\n")
		for _, c := range d.Components {
			fmt.Fprintf(&sb, "\t{name: %q, mesh: %q},\n", c.Name, c.Mesh)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
