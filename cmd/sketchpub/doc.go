// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the sketchpub CLI commands.
//
// The App type is the composition root: command handlers receive it and
// delegate to its ConfigProvider and PublishService, which tests replace
// with fakes.
package cmd
