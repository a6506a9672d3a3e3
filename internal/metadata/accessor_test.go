// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"testing"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

type fakeDoc struct {
	fields    map[hostapi.SummaryField]string
	saved     string
	display   string
	readErrs  map[hostapi.SummaryField]error
	writeErrs map[hostapi.SummaryField]error
	writes    []hostapi.SummaryField
}

func (d *fakeDoc) SummaryField(f hostapi.SummaryField) (string, error) {
	if err := d.readErrs[f]; err != nil {
		return "", err
	}
	return d.fields[f], nil
}

func (d *fakeDoc) SetSummaryField(f hostapi.SummaryField, v string) error {
	d.writes = append(d.writes, f)
	if err := d.writeErrs[f]; err != nil {
		return err
	}
	if d.fields == nil {
		d.fields = map[hostapi.SummaryField]string{}
	}
	d.fields[f] = v
	return nil
}

func (d *fakeDoc) SavedPath() string    { return d.saved }
func (d *fakeDoc) DisplayTitle() string { return d.display }

func TestResolveTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		summary    string
		saved      string
		display    string
		want       string
		wantSource TitleSource
	}{
		{"summary wins", "Gearbox", "C:/models/gear.sldprt", "gear - design", "Gearbox", TitleFromSummary},
		{"saved path before display title", "", "C:/models/gear.sldprt", "gear - design", "gear", TitleFromSavedPath},
		{"windows separators", "", `C:\models\sub\bracket.SLDPRT`, "", "bracket", TitleFromSavedPath},
		{"display title when unsaved", "", "", "widget.SLDASM", "widget", TitleFromDisplayTitle},
		{"display title without extension", "", "", "Part1", "Part1", TitleFromDisplayTitle},
		{"only last extension stripped", "", "/tmp/v1.2.final.stl", "", "v1.2.final", TitleFromSavedPath},
		{"nothing available", "", "", "", "", TitleUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, src := ResolveTitle(tt.summary, tt.saved, tt.display)
			if got != tt.want || src != tt.wantSource {
				t.Errorf("ResolveTitle(%q, %q, %q) = (%q, %s), want (%q, %s)",
					tt.summary, tt.saved, tt.display, got, src, tt.want, tt.wantSource)
			}
		})
	}
}

func TestAccessor_Read(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{
		fields: map[hostapi.SummaryField]string{
			hostapi.FieldDescription: "A spur gear",
			hostapi.FieldTags:        "gear mechanical",
		},
		saved:   "C:/models/gear.sldprt",
		display: "gear - design",
	}

	md, err := Accessor{}.Read(doc)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	want := hostapi.Metadata{Title: "gear", Description: "A spur gear", Tags: "gear mechanical"}
	if md != want {
		t.Errorf("Read() = %+v, want %+v", md, want)
	}
}

func TestAccessor_ReadDegradesOnFieldFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("summary info unavailable")
	doc := &fakeDoc{
		fields: map[hostapi.SummaryField]string{
			hostapi.FieldTitle: "ignored because read fails",
			hostapi.FieldTags:  "kept",
		},
		readErrs: map[hostapi.SummaryField]error{
			hostapi.FieldTitle:       boom,
			hostapi.FieldDescription: boom,
		},
		display: "widget.SLDASM",
	}

	md, src, err := ReadWithSource(doc)
	if !errors.Is(err, boom) {
		t.Fatalf("ReadWithSource() error = %v, want wrapped %v", err, boom)
	}
	if md.Title != "widget" || src != TitleFromDisplayTitle {
		t.Errorf("title = (%q, %s), want fallback to display title", md.Title, src)
	}
	if md.Description != "" {
		t.Errorf("Description = %q, want empty", md.Description)
	}
	if md.Tags != "kept" {
		t.Errorf("Tags = %q, want %q", md.Tags, "kept")
	}
}

func TestAccessor_Write(t *testing.T) {
	t.Parallel()
	doc := &fakeDoc{}
	md := hostapi.Metadata{Title: "New", Description: "Desc", Tags: "a b"}

	if err := (Accessor{}).Write(doc, md); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	for _, f := range hostapi.SummaryFields() {
		if doc.fields[f] != md.Get(f) {
			t.Errorf("field %s = %q, want %q", f, doc.fields[f], md.Get(f))
		}
	}
}

func TestAccessor_WriteAttemptsEveryField(t *testing.T) {
	t.Parallel()
	boom := errors.New("read-only document")
	doc := &fakeDoc{writeErrs: map[hostapi.SummaryField]error{hostapi.FieldTitle: boom}}

	err := Accessor{}.Write(doc, hostapi.Metadata{Title: "t", Description: "d", Tags: "g"})
	if !errors.Is(err, boom) {
		t.Fatalf("Write() error = %v, want wrapped %v", err, boom)
	}
	if len(doc.writes) != 3 {
		t.Errorf("expected 3 write attempts, got %v", doc.writes)
	}
	if doc.fields[hostapi.FieldTags] != "g" {
		t.Error("later fields must still be written after a failure")
	}
}
