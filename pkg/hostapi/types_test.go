// SPDX-License-Identifier: MPL-2.0

package hostapi

import (
	"errors"
	"testing"
)

func TestParseDocumentKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    DocumentKind
		wantErr bool
	}{
		{"part", KindPart, false},
		{"Assembly", KindAssembly, false},
		{"  DRAWING ", KindDrawing, false},
		{"other", KindOther, false},
		{"sheet", KindOther, true},
		{"", KindOther, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDocumentKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDocumentKind) {
					t.Fatalf("ParseDocumentKind(%q) error = %v, want ErrInvalidDocumentKind", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDocumentKind(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDocumentKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDocumentKind_IsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := KindAssembly.IsValid(); !ok {
		t.Error("KindAssembly should be valid")
	}
	ok, errs := DocumentKind(42).IsValid()
	if ok {
		t.Fatal("DocumentKind(42) should be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidDocumentKind) {
		t.Errorf("expected one ErrInvalidDocumentKind, got %v", errs)
	}
	if got := DocumentKind(42).String(); got != "kind(42)" {
		t.Errorf("String() = %q, want %q", got, "kind(42)")
	}
}

func TestMetadata_GetSet(t *testing.T) {
	t.Parallel()

	var m Metadata
	for _, f := range SummaryFields() {
		m.Set(f, "v-"+f.String())
	}
	m.Set(SummaryField("author"), "ignored")

	want := Metadata{Title: "v-title", Description: "v-description", Tags: "v-tags"}
	if m != want {
		t.Errorf("after Set: %+v, want %+v", m, want)
	}
	if got := m.Get(FieldTags); got != "v-tags" {
		t.Errorf("Get(FieldTags) = %q", got)
	}
	if got := m.Get(SummaryField("author")); got != "" {
		t.Errorf("Get(unknown) = %q, want empty", got)
	}
}

func TestExportStatus_Failed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status ExportStatus
		want   bool
	}{
		{"clean", ExportStatus{OK: true}, false},
		{"warnings only", ExportStatus{OK: true, Warnings: 3}, false},
		{"errors reported", ExportStatus{OK: true, Errors: 1}, true},
		{"false flag", ExportStatus{OK: false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUploadOutcome_ShouldCommit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome UploadOutcome
		want    bool
	}{
		{UploadOutcome{Confirmed: true, PersistMetadataEdits: true}, true},
		{UploadOutcome{Confirmed: true, PersistMetadataEdits: false}, false},
		{UploadOutcome{Confirmed: false, PersistMetadataEdits: true}, false},
		{UploadOutcome{}, false},
	}
	for _, tt := range tests {
		if got := tt.outcome.ShouldCommit(); got != tt.want {
			t.Errorf("%+v.ShouldCommit() = %v, want %v", tt.outcome, got, tt.want)
		}
	}
}
