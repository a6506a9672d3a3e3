// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"os"
	"sync"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

type (
	prefWrite struct {
		key   hostapi.PreferenceKey
		value bool
	}

	fakeHost struct {
		mu       sync.Mutex
		revision string
		prefs    map[hostapi.PreferenceKey]bool
		reads    int
		writes   []prefWrite
		readErr  error
		writeErr error
		// onSet runs inside SetPreferenceToggle before the value is stored.
		onSet func(key hostapi.PreferenceKey, value bool)
	}

	fakeDocument struct {
		kind    hostapi.DocumentKind
		saved   string
		display string
		fields  map[hostapi.SummaryField]string

		// exportStatus is returned from ExportTo; when write is set the target
		// file is created first.
		exportStatus hostapi.ExportStatus
		exportErr    error
		write        bool
		exports      []string
		exportOpts   []hostapi.ExportOptions

		// onExport runs inside ExportTo, before the file is written.
		onExport func()

		readErr   error
		writeErr  error
		setCalls  int
		setFields map[hostapi.SummaryField]string
	}

	fakeUploader struct {
		outcome  hostapi.UploadOutcome
		err      error
		calls    int
		requests []hostapi.DialogRequest
		// sawArtifact records whether the artifact existed when the dialog opened.
		sawArtifact bool
		// onShow runs inside ShowPublishDialog before returning.
		onShow func()
	}
)

func newFakeHost(mergePref bool) *fakeHost {
	return &fakeHost{
		revision: "30.2.1",
		prefs:    map[hostapi.PreferenceKey]bool{hostapi.PrefSTLComponentsIntoOneFile: mergePref},
	}
}

func (h *fakeHost) PreferenceToggle(key hostapi.PreferenceKey) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads++
	if h.readErr != nil {
		return false, h.readErr
	}
	return h.prefs[key], nil
}

func (h *fakeHost) SetPreferenceToggle(key hostapi.PreferenceKey, value bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes = append(h.writes, prefWrite{key, value})
	if h.onSet != nil {
		h.onSet(key, value)
	}
	if h.writeErr != nil {
		return h.writeErr
	}
	h.prefs[key] = value
	return nil
}

func (h *fakeHost) RevisionNumber() string { return h.revision }

func (h *fakeHost) touched() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reads > 0 || len(h.writes) > 0
}

func newFakeDocument(kind hostapi.DocumentKind) *fakeDocument {
	return &fakeDocument{
		kind:         kind,
		saved:        "C:/models/gear.sldprt",
		display:      "gear - design",
		fields:       map[hostapi.SummaryField]string{hostapi.FieldDescription: "spur gear", hostapi.FieldTags: "gear"},
		exportStatus: hostapi.ExportStatus{OK: true},
		write:        true,
		setFields:    map[hostapi.SummaryField]string{},
	}
}

func (d *fakeDocument) Kind() hostapi.DocumentKind { return d.kind }
func (d *fakeDocument) SavedPath() string          { return d.saved }
func (d *fakeDocument) DisplayTitle() string       { return d.display }

func (d *fakeDocument) ExportTo(path string, opts hostapi.ExportOptions) (hostapi.ExportStatus, error) {
	d.exports = append(d.exports, path)
	d.exportOpts = append(d.exportOpts, opts)
	if d.onExport != nil {
		d.onExport()
	}
	if d.write {
		if err := os.WriteFile(path, []byte("solid fake\nendsolid fake\n"), 0o644); err != nil {
			return hostapi.ExportStatus{}, err
		}
	}
	return d.exportStatus, d.exportErr
}

func (d *fakeDocument) SummaryField(f hostapi.SummaryField) (string, error) {
	if d.readErr != nil {
		return "", d.readErr
	}
	return d.fields[f], nil
}

func (d *fakeDocument) SetSummaryField(f hostapi.SummaryField, v string) error {
	d.setCalls++
	if d.writeErr != nil {
		return d.writeErr
	}
	d.setFields[f] = v
	return nil
}

func (u *fakeUploader) ShowPublishDialog(_ context.Context, req hostapi.DialogRequest) (hostapi.UploadOutcome, error) {
	u.calls++
	u.requests = append(u.requests, req)
	if _, err := os.Stat(req.ArtifactPath); err == nil {
		u.sawArtifact = true
	}
	if u.onShow != nil {
		u.onShow()
	}
	return u.outcome, u.err
}
