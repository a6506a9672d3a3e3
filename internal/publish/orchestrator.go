// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sketchpub/sketchpub/internal/artifact"
	"github.com/sketchpub/sketchpub/internal/metadata"
	"github.com/sketchpub/sketchpub/internal/prefguard"
	"github.com/sketchpub/sketchpub/pkg/hostapi"

	"github.com/charmbracelet/log"
)

// ArtifactExt is the extension of the exported exchange file.
const ArtifactExt = ".stl"

var (
	// ErrNilHost is returned by New when no host is supplied.
	ErrNilHost = errors.New("host must not be nil")
	// ErrNilUploader is returned by New when no uploader is supplied.
	ErrNilUploader = errors.New("uploader must not be nil")
)

type (
	// Options configures an Orchestrator. The zero value is usable.
	Options struct {
		// Artifacts allocates scratch files; nil allocates in os.TempDir().
		Artifacts *artifact.Manager
		// SourcePrefix names the host in the source tag (default "solidworks").
		SourcePrefix string
		// AllowExportErrors shows the dialog even when the export failed, recording
		// ExportFailed as a warning instead of aborting the run.
		AllowExportErrors bool
		// Logger receives state transitions (debug) and warnings; nil discards.
		Logger *log.Logger
	}

	// Orchestrator sequences one publish run against a host and an uploader.
	// It holds no per-run state and may be reused for successive runs.
	Orchestrator struct {
		host              hostapi.Host
		uploader          hostapi.Uploader
		artifacts         *artifact.Manager
		guard             *prefguard.Guard
		meta              metadata.Accessor
		sourcePrefix      string
		allowExportErrors bool
		logger            *log.Logger
	}

	// run carries the per-invocation state of Orchestrator.Run.
	run struct {
		o      *Orchestrator
		report *Report
		state  State
	}
)

// New creates an Orchestrator.
func New(host hostapi.Host, uploader hostapi.Uploader, opts Options) (*Orchestrator, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if uploader == nil {
		return nil, ErrNilUploader
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	artifacts := opts.Artifacts
	if artifacts == nil {
		artifacts = artifact.NewManager("")
	}
	prefix := opts.SourcePrefix
	if prefix == "" {
		prefix = DefaultSourcePrefix
	}

	return &Orchestrator{
		host:              host,
		uploader:          uploader,
		artifacts:         artifacts,
		guard:             prefguard.New(host),
		sourcePrefix:      prefix,
		allowExportErrors: opts.AllowExportErrors,
		logger:            logger,
	}, nil
}

// Run publishes doc. It blocks while the uploader dialog is open.
//
// The returned Report is populated on every path, including errors. The error
// is non-nil only for failures that end the run early (ExportFailed unless
// allowed, DialogFailed); recoverable failures are in Report.Warnings. The
// preference restore and artifact release have completed before Run returns.
func (o *Orchestrator) Run(ctx context.Context, doc hostapi.Document) (rep Report, err error) {
	if doc == nil {
		return rep, ErrNilDocument
	}

	r := &run{o: o, report: &rep, state: StateIdle}
	rep.States = []State{StateIdle}
	r.enter(StateExporting)

	art, err := o.artifacts.Allocate(ArtifactExt)
	if err != nil {
		r.enter(StateCleaningUp)
		r.enter(StateIdle)
		return rep, newStepError(ErrExportFailed, StateExporting, err)
	}
	rep.ArtifactPath = art.Path()

	// Registered separately so a panic in one still lets the other run.
	// The preference is restored first, then the artifact is released.
	defer r.release(art)
	var snap *prefguard.Snapshot
	defer func() {
		r.restore(snap)
	}()

	rep.Kind = doc.Kind()
	if rep.Kind == hostapi.KindAssembly {
		s, gerr := o.guard.Acquire(hostapi.PrefSTLComponentsIntoOneFile, true)
		snap = s
		if gerr != nil {
			r.warn(newStepError(ErrPreferenceAccessFailed, StateExporting, gerr))
		} else {
			rep.PreferenceForced = true
		}
	}

	if xerr := r.export(doc, art); xerr != nil {
		if IsFatal(xerr, o.allowExportErrors) {
			return rep, xerr
		}
		r.warn(xerr)
	}

	r.enter(StateCollectingMetadata)
	md, merr := o.meta.Read(doc)
	if merr != nil {
		r.warn(newStepError(ErrMetadataAccessFailed, StateCollectingMetadata, merr))
	}
	rep.Metadata = md

	tag, verr := DeriveSourceTag(o.sourcePrefix, o.host.RevisionNumber())
	if verr != nil {
		r.warn(newStepError(ErrVersionParseFailed, StateCollectingMetadata, verr))
	}
	rep.SourceTag = tag

	r.enter(StateAwaitingUserDecision)
	if cerr := ctx.Err(); cerr != nil {
		return rep, newStepError(ErrDialogFailed, StateAwaitingUserDecision, cerr)
	}
	outcome, derr := o.uploader.ShowPublishDialog(ctx, hostapi.DialogRequest{
		ArtifactPath: art.Path(),
		Metadata:     md,
		SourceTag:    tag.String(),
	})
	if derr != nil {
		return rep, newStepError(ErrDialogFailed, StateAwaitingUserDecision, derr)
	}
	rep.Outcome = outcome

	if !outcome.ShouldCommit() {
		r.enter(StateCancelling)
		return rep, nil
	}

	r.enter(StateCommitting)
	if werr := o.meta.Write(doc, outcome.EditedMetadata); werr != nil {
		r.warn(newStepError(ErrMetadataAccessFailed, StateCommitting, werr))
	} else {
		rep.MetadataCommitted = true
	}
	return rep, nil
}

// export runs the host export and classifies its result.
func (r *run) export(doc hostapi.Document, art *artifact.Artifact) error {
	status, err := doc.ExportTo(art.Path(), hostapi.ExportOptions{
		FormatVersion: hostapi.FormatVersionCurrent,
		Silent:        true,
		Overwrite:     true,
	})
	r.report.ExportStatus = status

	switch {
	case err != nil:
		return newStepError(ErrExportFailed, StateExporting, err)
	case status.Failed():
		return newStepError(ErrExportFailed, StateExporting, fmt.Errorf("host reported %s", status))
	case !art.Exists():
		return newStepError(ErrExportFailed, StateExporting, fmt.Errorf("no file written to %s", art.Path()))
	}

	if status.Warnings > 0 {
		r.o.logger.Warn("export completed with warnings", "warnings", status.Warnings, "path", art.Path())
	}
	return nil
}

// restore enters CleaningUp and puts back the preference captured in snap, if any.
// A failure is recorded as a warning so it never masks the run error.
func (r *run) restore(snap *prefguard.Snapshot) {
	r.enter(StateCleaningUp)
	if snap == nil {
		return
	}
	if err := r.o.guard.Restore(snap); err != nil {
		r.warn(newStepError(ErrPreferenceAccessFailed, StateCleaningUp, err))
		return
	}
	r.report.PreferenceRestored = true
}

// release deletes the artifact and returns the run to Idle.
func (r *run) release(art *artifact.Artifact) {
	if r.state != StateCleaningUp {
		r.enter(StateCleaningUp)
	}
	if err := r.o.artifacts.Release(art); err != nil {
		r.warn(newStepError(ErrCleanupFailed, StateCleaningUp, err))
	} else {
		r.report.ArtifactReleased = true
	}
	r.enter(StateIdle)
}

func (r *run) enter(next State) {
	if !r.state.CanTransition(next) {
		// Unreachable unless Run itself is wrong; keep going so cleanup still happens.
		r.o.logger.Error("illegal publish state transition", "from", r.state, "to", next)
	}
	r.o.logger.Debug("publish state", "from", r.state, "to", next)
	r.state = next
	r.report.States = append(r.report.States, next)
}

func (r *run) warn(err error) {
	r.o.logger.Warn("publish continuing after error", "err", err)
	r.report.Warnings = append(r.report.Warnings, err)
}
