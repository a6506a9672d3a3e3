// SPDX-License-Identifier: MPL-2.0

// Package metadata reads and writes the title, description, and tags a document
// is published with.
package metadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

const (
	// TitleFromSummary means the title came from the document's summary info.
	TitleFromSummary TitleSource = "summary"
	// TitleFromSavedPath means the title was derived from the saved file name.
	TitleFromSavedPath TitleSource = "saved-path"
	// TitleFromDisplayTitle means the title was derived from the window title.
	TitleFromDisplayTitle TitleSource = "display-title"
	// TitleUnresolved means every source was empty.
	TitleUnresolved TitleSource = "none"
)

type (
	// TitleSource records which fallback step produced the resolved title.
	TitleSource string

	// Source is the document surface the accessor reads from.
	Source interface {
		hostapi.SummaryStore
		SavedPath() string
		DisplayTitle() string
	}

	// Accessor reads and writes publish metadata on a document.
	Accessor struct{}
)

// Read returns the document's metadata. When the summary title is empty the
// title falls back to the saved file name, then to the display title, in both
// cases without extension. A failed field read leaves that field empty and is
// reported in the returned error; the metadata is always usable.
func (Accessor) Read(doc Source) (hostapi.Metadata, error) {
	md, _, err := ReadWithSource(doc)
	return md, err
}

// ReadWithSource is Read that also reports where the title came from.
func ReadWithSource(doc Source) (hostapi.Metadata, TitleSource, error) {
	var (
		md   hostapi.Metadata
		errs []error
	)
	for _, f := range hostapi.SummaryFields() {
		v, err := doc.SummaryField(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", f, err))
			continue
		}
		md.Set(f, v)
	}

	title, src := ResolveTitle(md.Title, doc.SavedPath(), doc.DisplayTitle())
	md.Title = title
	return md, src, errors.Join(errs...)
}

// Write overwrites the three summary fields. Every field is attempted even if an
// earlier one fails.
func (Accessor) Write(doc hostapi.SummaryStore, md hostapi.Metadata) error {
	var errs []error
	for _, f := range hostapi.SummaryFields() {
		if err := doc.SetSummaryField(f, md.Get(f)); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", f, err))
		}
	}
	return errors.Join(errs...)
}

// ResolveTitle applies the title fallback chain.
func ResolveTitle(summaryTitle, savedPath, displayTitle string) (string, TitleSource) {
	if summaryTitle != "" {
		return summaryTitle, TitleFromSummary
	}
	if savedPath != "" {
		if t := stem(savedPath); t != "" {
			return t, TitleFromSavedPath
		}
	}
	if t := stem(displayTitle); t != "" {
		return t, TitleFromDisplayTitle
	}
	return "", TitleUnresolved
}

// stem returns the last path element without its extension. Both '/' and '\'
// separate elements since host paths may come from either platform.
func stem(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	if i := strings.LastIndexByte(p, '.'); i >= 0 {
		p = p[:i]
	}
	return p
}
