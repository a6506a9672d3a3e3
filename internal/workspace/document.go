// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

var (
	// ErrReadOnlyDocument is returned when writing summary fields of a read-only document.
	ErrReadOnlyDocument = errors.New("document is read-only")
	// ErrTargetExists is returned by ExportTo when the target exists and Overwrite is off.
	ErrTargetExists = errors.New("export target already exists")
	// ErrUnsupportedFormatVersion is returned for format versions the host cannot write.
	ErrUnsupportedFormatVersion = errors.New("unsupported export format version")
)

var (
	_ hostapi.Host     = (*Host)(nil)
	_ hostapi.Document = (*Document)(nil)
)

// Document is the workspace implementation of hostapi.Document.
type Document struct {
	mu   sync.Mutex
	path string
	dir  string
	desc Descriptor
	kind hostapi.DocumentKind
	host *Host
}

// Open loads the descriptor at path as a document of host.
func Open(path string, host *Host) (*Document, error) {
	if host == nil {
		return nil, errors.New("workspace host must not be nil")
	}
	desc, err := LoadDescriptor(path)
	if err != nil {
		return nil, err
	}
	kind, err := hostapi.ParseDocumentKind(desc.Kind)
	if err != nil {
		return nil, &DescriptorError{Path: path, Err: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Document{path: abs, dir: filepath.Dir(abs), desc: *desc, kind: kind, host: host}, nil
}

// DescriptorPath returns the descriptor file backing the document.
func (d *Document) DescriptorPath() string { return d.path }

// Kind returns the document kind.
func (d *Document) Kind() hostapi.DocumentKind { return d.kind }

// SavedPath returns the host save location, or "" when never saved.
func (d *Document) SavedPath() string { return d.desc.Path }

// DisplayTitle returns the window title.
func (d *Document) DisplayTitle() string { return d.desc.Title }

// Components returns the document's components with mesh paths resolved.
func (d *Document) Components() []Component {
	out := make([]Component, len(d.desc.Components))
	for i, c := range d.desc.Components {
		out[i] = Component{Name: c.Name, Mesh: d.meshPath(c)}
	}
	return out
}

// SummaryField returns the stored value of f.
func (d *Document) SummaryField(f hostapi.SummaryField) (string, error) {
	if ok, errs := f.IsValid(); !ok {
		return "", errs[0]
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.field(f), nil
}

// SetSummaryField stores v in f and saves the descriptor.
func (d *Document) SetSummaryField(f hostapi.SummaryField, v string) error {
	if ok, errs := f.IsValid(); !ok {
		return errs[0]
	}
	if d.desc.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnlyDocument, d.path)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.desc
	*next.fieldOf(f) = v
	if err := saveDescriptor(d.path, &next); err != nil {
		return err
	}
	d.desc = next
	return nil
}

// ExportTo writes the document as STL to path.
//
// Drawings and unclassified documents have no mesh and report one export
// error. An assembly is merged into path only when the host's
// PrefSTLComponentsIntoOneFile preference is on; otherwise each component is
// written beside path as "<stem>-<component><ext>" and path itself is not
// created, which the status does not report.
func (d *Document) ExportTo(path string, opts hostapi.ExportOptions) (hostapi.ExportStatus, error) {
	if opts.FormatVersion != hostapi.FormatVersionCurrent {
		return hostapi.ExportStatus{}, fmt.Errorf("%w: %d", ErrUnsupportedFormatVersion, opts.FormatVersion)
	}
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return hostapi.ExportStatus{}, fmt.Errorf("%w: %s", ErrTargetExists, path)
		}
	}

	switch d.kind {
	case hostapi.KindPart:
		return d.exportMerged(path, d.desc.Components)
	case hostapi.KindAssembly:
		merge, err := d.host.PreferenceToggle(hostapi.PrefSTLComponentsIntoOneFile)
		if err != nil {
			return hostapi.ExportStatus{}, err
		}
		if merge {
			return d.exportMerged(path, d.desc.Components)
		}
		return d.exportPerComponent(path)
	default:
		return hostapi.ExportStatus{OK: false, Errors: 1}, nil
	}
}

// exportMerged writes the components' meshes to path as one STL. Unreadable
// meshes are counted as errors and skipped.
func (d *Document) exportMerged(path string, components []Component) (hostapi.ExportStatus, error) {
	var (
		status hostapi.ExportStatus
		meshes [][]byte
	)
	for _, c := range components {
		data, err := os.ReadFile(d.meshPath(c))
		if err != nil {
			status.Errors++
			continue
		}
		meshes = append(meshes, data)
	}
	if len(meshes) == 0 {
		return status, nil
	}

	merged, err := MergeSTL(meshes)
	if err != nil {
		status.Errors++
		return status, nil
	}
	if err := os.WriteFile(path, merged, 0o644); err != nil {
		return status, fmt.Errorf("failed to write %s: %w", path, err)
	}
	status.OK = true
	return status, nil
}

func (d *Document) exportPerComponent(path string) (hostapi.ExportStatus, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	var status hostapi.ExportStatus
	for _, c := range d.desc.Components {
		data, err := os.ReadFile(d.meshPath(c))
		if err != nil {
			status.Errors++
			continue
		}
		if _, err := InspectSTL(data); err != nil {
			status.Errors++
			continue
		}
		target := stem + "-" + sanitizeName(c.Name) + ext
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return status, fmt.Errorf("failed to write %s: %w", target, err)
		}
	}
	status.OK = status.Errors == 0
	return status, nil
}

func (d *Document) meshPath(c Component) string {
	if filepath.IsAbs(c.Mesh) {
		return c.Mesh
	}
	return filepath.Join(d.dir, c.Mesh)
}

func (d *Document) field(f hostapi.SummaryField) *string {
	return d.desc.fieldOf(f)
}

func (desc *Descriptor) fieldOf(f hostapi.SummaryField) *string {
	switch f {
	case hostapi.FieldDescription:
		return &desc.Summary.Description
	case hostapi.FieldTags:
		return &desc.Summary.Tags
	default:
		return &desc.Summary.Title
	}
}

// sanitizeName makes a component name safe for use in a file name.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}
