// SPDX-License-Identifier: MPL-2.0

// Package workspace is a file-backed CAD host.
//
// A document is a TOML descriptor naming its kind, saved path, display title,
// summary fields and the STL meshes of its components. Host preferences live in
// a separate TOML file so that, like a real CAD host, they are shared by every
// document and every process on the machine.
//
// Exporting never generates geometry: a part's mesh is copied, an assembly's
// component meshes are merged into one STL when the merge preference is on, or
// written as one sibling file per component when it is off.
package workspace
