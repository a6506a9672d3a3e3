// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sketchpub/sketchpub/pkg/hostapi"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// maxDescriptorSize bounds the descriptor file read.
const maxDescriptorSize = 1 << 20

// ErrInvalidDescriptor is the sentinel error wrapped by DescriptorError.
var ErrInvalidDescriptor = errors.New("invalid document descriptor")

type (
	// Descriptor is the on-disk form of a workspace document.
	Descriptor struct {
		Kind string `json:"kind" toml:"kind" validate:"required,oneof=part assembly drawing other"`
		// Path is the document's saved location in the host; empty for a new,
		// never-saved document.
		Path  string `json:"path,omitempty" toml:"path,omitempty"`
		Title string `json:"title,omitempty" toml:"title,omitempty"`
		// ReadOnly rejects summary writes, like a document opened read-only.
		ReadOnly   bool        `json:"read_only,omitempty" toml:"read_only,omitempty"`
		Summary    Summary     `json:"summary" toml:"summary"`
		Components []Component `json:"components,omitempty" toml:"components,omitempty" validate:"dive"`
	}

	// Summary holds the document summary-info fields.
	Summary struct {
		Title       string `json:"title" toml:"title"`
		Description string `json:"description" toml:"description"`
		Tags        string `json:"tags" toml:"tags"`
	}

	// Component is one body of the document and its mesh file. Relative mesh
	// paths resolve against the descriptor's directory.
	Component struct {
		Name string `json:"name" toml:"name" validate:"required,max=128"`
		Mesh string `json:"mesh" toml:"mesh" validate:"required"`
	}

	// DescriptorError describes why a descriptor could not be loaded.
	// It wraps ErrInvalidDescriptor for errors.Is() compatibility.
	DescriptorError struct {
		Path string
		Err  error
	}
)

var descriptorValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadDescriptor reads and validates the descriptor at path.
func LoadDescriptor(path string) (*Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document descriptor: %w", err)
	}
	if info.Size() > maxDescriptorSize {
		return nil, &DescriptorError{Path: path, Err: fmt.Errorf("file is %d bytes, limit is %d", info.Size(), maxDescriptorSize)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document descriptor: %w", err)
	}
	var d *Descriptor
	if isCUE(path) {
		d, err = ParseCUEDescriptor(data, filepath.Base(path))
	} else {
		d, err = ParseDescriptor(data)
	}
	if err != nil {
		return nil, &DescriptorError{Path: path, Err: err}
	}
	return d, nil
}

// ParseDescriptor decodes and validates descriptor TOML. Unknown keys are errors.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	d.Kind = strings.ToLower(strings.TrimSpace(d.Kind))
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks field constraints and the kind-specific component rules.
func (d *Descriptor) Validate() error {
	if err := descriptorValidator.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	kind, _ := hostapi.ParseDocumentKind(d.Kind)
	switch kind {
	case hostapi.KindPart:
		if len(d.Components) != 1 {
			return fmt.Errorf("a part needs exactly one component, got %d", len(d.Components))
		}
	case hostapi.KindAssembly:
		if len(d.Components) == 0 {
			return errors.New("an assembly needs at least one component")
		}
	}

	seen := make(map[string]bool, len(d.Components))
	for _, c := range d.Components {
		key := sanitizeName(c.Name)
		if seen[key] {
			return fmt.Errorf("duplicate component name %q", c.Name)
		}
		seen[key] = true
	}
	return nil
}

// Error implements the error interface for DescriptorError.
func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid document descriptor %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrInvalidDescriptor for errors.Is() compatibility.
func (e *DescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// Cause returns the underlying parse or validation error.
func (e *DescriptorError) Cause() error { return e.Err }

// saveDescriptor atomically replaces path with d, keeping the file's format.
func saveDescriptor(path string, d *Descriptor) error {
	if isCUE(path) {
		return writeFileAtomic(path, []byte(encodeCUE(d)))
	}
	data, err := toml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding document descriptor: %w", err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temp file beside path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sketchpub-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
