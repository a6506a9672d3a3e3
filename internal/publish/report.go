// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"errors"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

const (
	// ResultAborted means the run ended before the user made a decision.
	ResultAborted Result = iota
	// ResultCancelled means the user declined the upload.
	ResultCancelled
	// ResultUploaded means the user confirmed the upload.
	ResultUploaded
)

type (
	// Result summarizes how a run ended.
	Result int

	// Report describes one publish run.
	Report struct {
		Kind         hostapi.DocumentKind
		ArtifactPath string
		ExportStatus hostapi.ExportStatus
		// Metadata is what the uploader was given.
		Metadata  hostapi.Metadata
		SourceTag SourceTag
		Outcome   hostapi.UploadOutcome
		// States is every state visited, in order, starting and ending with Idle.
		States []State

		PreferenceForced   bool
		PreferenceRestored bool
		MetadataCommitted  bool
		ArtifactReleased   bool

		// Warnings are recoverable failures; each is a *StepError.
		Warnings []error
	}
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultUploaded:
		return "uploaded"
	case ResultCancelled:
		return "cancelled"
	default:
		return "aborted"
	}
}

// Result classifies the run.
func (r Report) Result() Result {
	if r.Outcome.Confirmed {
		return ResultUploaded
	}
	for _, s := range r.States {
		if s == StateCancelling {
			return ResultCancelled
		}
	}
	return ResultAborted
}

// Visited reports whether the run passed through s.
func (r Report) Visited(s State) bool {
	for _, v := range r.States {
		if v == s {
			return true
		}
	}
	return false
}

// HasWarning reports whether any warning matches target via errors.Is.
func (r Report) HasWarning(target error) bool {
	for _, w := range r.Warnings {
		if errors.Is(w, target) {
			return true
		}
	}
	return false
}
