// SPDX-License-Identifier: MPL-2.0

// Package publish runs the publish workflow: export the active document to a
// scratch STL file, collect its metadata, hand both to an uploader, optionally
// write edited metadata back, and clean up.
//
// A run moves through the states
//
//	Idle → Exporting → CollectingMetadata → AwaitingUserDecision →
//	    {Committing | Cancelling} → CleaningUp → Idle
//
// and may jump to CleaningUp from any earlier state when a fatal error occurs.
// Two obligations hold on every path out of Run, including fatal errors and
// panics: a host preference forced for the export is restored, and the scratch
// file is deleted. Fatal errors are returned; recoverable ones are collected as
// warnings on the Report.
package publish
