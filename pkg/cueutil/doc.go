// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing steps shared by the configuration
// loader and the workspace document reader:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed document_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Descriptor](
//	    schema,
//	    data,
//	    "#Document",
//	    cueutil.WithFilename("gear.cue"),
//	)
//
// Errors name the file and the JSON path of the offending field, e.g.
// "config.cue: uploader.mode: 2 errors in empty disjunction".
package cueutil
