// SPDX-License-Identifier: MPL-2.0

// Package hostapi defines the contract between the publish workflow and the CAD host
// that embeds it: the document and preference surface the workflow consumes, the
// uploader it hands artifacts to, and the value types exchanged across both.
//
// Nothing here talks to a real host. Adapters (internal/workspace for headless use,
// or a host-specific plugin shim) implement these interfaces and are passed to the
// orchestrator explicitly, so every collaborator can be replaced by a test double.
package hostapi
