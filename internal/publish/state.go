// SPDX-License-Identifier: MPL-2.0

package publish

import "fmt"

const (
	// StateIdle is the state before and after a run.
	StateIdle State = iota
	// StateExporting allocates the artifact and exports the document into it.
	StateExporting
	// StateCollectingMetadata reads metadata and derives the source tag.
	StateCollectingMetadata
	// StateAwaitingUserDecision blocks on the uploader dialog.
	StateAwaitingUserDecision
	// StateCommitting writes edited metadata back to the document.
	StateCommitting
	// StateCancelling is the no-write branch after the dialog.
	StateCancelling
	// StateCleaningUp restores preferences and releases the artifact.
	StateCleaningUp
)

// State is a step of the publish state machine.
type State int

var stateNames = [...]string{
	StateIdle:                 "idle",
	StateExporting:            "exporting",
	StateCollectingMetadata:   "collecting-metadata",
	StateAwaitingUserDecision: "awaiting-user-decision",
	StateCommitting:           "committing",
	StateCancelling:           "cancelling",
	StateCleaningUp:           "cleaning-up",
}

// transitions lists the legal successors of each state. Every working state may
// also jump straight to CleaningUp when a fatal error ends the run.
var transitions = map[State][]State{
	StateIdle:                 {StateExporting, StateCleaningUp},
	StateExporting:            {StateCollectingMetadata, StateCleaningUp},
	StateCollectingMetadata:   {StateAwaitingUserDecision, StateCleaningUp},
	StateAwaitingUserDecision: {StateCommitting, StateCancelling, StateCleaningUp},
	StateCommitting:           {StateCleaningUp},
	StateCancelling:           {StateCleaningUp},
	StateCleaningUp:           {StateIdle},
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// CanTransition reports whether to is a legal successor of s.
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
