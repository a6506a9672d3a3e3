// SPDX-License-Identifier: MPL-2.0

// Package uploader provides the hostapi.Uploader implementations: an
// interactive terminal dialog and a shell script hook run by the embedded
// mvdan/sh interpreter. The dialog can hand a confirmed request to a script so
// the user reviews the metadata and the script performs the transfer.
package uploader
