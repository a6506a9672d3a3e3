// SPDX-License-Identifier: MPL-2.0

package hostapi

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// KindOther is any document the host cannot classify.
	KindOther DocumentKind = iota
	// KindPart is a single-body part document.
	KindPart
	// KindAssembly is a document composed of component parts.
	KindAssembly
	// KindDrawing is a 2D drawing document.
	KindDrawing
)

const (
	// FieldTitle is the summary-info title.
	FieldTitle SummaryField = "title"
	// FieldDescription is the summary-info comment, published as the model description.
	FieldDescription SummaryField = "description"
	// FieldTags is the summary-info keywords, published as the model tags.
	FieldTags SummaryField = "tags"
)

const (
	// PrefSTLComponentsIntoOneFile makes the STL exporter write all assembly
	// components into a single file instead of one file per component.
	PrefSTLComponentsIntoOneFile PreferenceKey = "stl_components_into_one_file"
)

const (
	// FormatVersionCurrent asks the host to export using its current format revision.
	FormatVersionCurrent FormatVersion = 0
)

var (
	// ErrInvalidDocumentKind is the sentinel error wrapped by InvalidDocumentKindError.
	ErrInvalidDocumentKind = errors.New("invalid document kind")
	// ErrInvalidSummaryField is returned when a SummaryField value is not recognized.
	ErrInvalidSummaryField = errors.New("invalid summary field")
)

type (
	// DocumentKind classifies a host document.
	DocumentKind int

	// InvalidDocumentKindError is returned when a document kind name cannot be parsed.
	// It wraps ErrInvalidDocumentKind for errors.Is() compatibility.
	InvalidDocumentKindError struct {
		Value string
	}

	// SummaryField names one of the document-level descriptive properties.
	SummaryField string

	// PreferenceKey names a host-wide boolean preference toggle.
	PreferenceKey string

	// FormatVersion selects the exchange-format revision used by an export.
	FormatVersion int

	// Metadata is the descriptive triple passed to and received from the uploader.
	Metadata struct {
		Title       string `toml:"title"`
		Description string `toml:"description"`
		Tags        string `toml:"tags"`
	}

	// ExportOptions configures a single export call.
	ExportOptions struct {
		FormatVersion FormatVersion
		// Silent suppresses host prompts during the export.
		Silent bool
		// Overwrite replaces an existing file at the target path.
		Overwrite bool
	}

	// ExportStatus is what the host reports back from an export call.
	ExportStatus struct {
		OK       bool
		Errors   int
		Warnings int
	}
)

var kindNames = map[DocumentKind]string{
	KindOther:    "other",
	KindPart:     "part",
	KindAssembly: "assembly",
	KindDrawing:  "drawing",
}

// ParseDocumentKind converts a case-insensitive kind name into a DocumentKind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindOther, &InvalidDocumentKindError{Value: s}
}

// String returns the lower-case kind name.
func (k DocumentKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsValid returns whether the DocumentKind is one of the known kinds.
func (k DocumentKind) IsValid() (bool, []error) {
	if _, ok := kindNames[k]; !ok {
		return false, []error{&InvalidDocumentKindError{Value: k.String()}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDocumentKindError.
func (e *InvalidDocumentKindError) Error() string {
	return fmt.Sprintf("invalid document kind %q (valid: part, assembly, drawing, other)", e.Value)
}

// Unwrap returns ErrInvalidDocumentKind for errors.Is() compatibility.
func (e *InvalidDocumentKindError) Unwrap() error { return ErrInvalidDocumentKind }

// String returns the field name.
func (f SummaryField) String() string { return string(f) }

// IsValid returns whether the SummaryField is one of the three published fields.
func (f SummaryField) IsValid() (bool, []error) {
	switch f {
	case FieldTitle, FieldDescription, FieldTags:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidSummaryField, string(f))}
	}
}

// SummaryFields lists the published fields in the order they are read and written.
func SummaryFields() []SummaryField {
	return []SummaryField{FieldTitle, FieldDescription, FieldTags}
}

// String returns the key name.
func (k PreferenceKey) String() string { return string(k) }

// Get returns the value of the named field.
func (m Metadata) Get(f SummaryField) string {
	switch f {
	case FieldTitle:
		return m.Title
	case FieldDescription:
		return m.Description
	case FieldTags:
		return m.Tags
	default:
		return ""
	}
}

// Set assigns the value of the named field. Unknown fields are ignored.
func (m *Metadata) Set(f SummaryField, v string) {
	switch f {
	case FieldTitle:
		m.Title = v
	case FieldDescription:
		m.Description = v
	case FieldTags:
		m.Tags = v
	}
}

// Failed reports whether the host signalled a failed export: an explicit false
// success flag or a non-zero error count. Warnings alone do not fail an export.
func (s ExportStatus) Failed() bool {
	return !s.OK || s.Errors > 0
}

// String renders the status for logs and error messages.
func (s ExportStatus) String() string {
	return fmt.Sprintf("ok=%t errors=%d warnings=%d", s.OK, s.Errors, s.Warnings)
}
