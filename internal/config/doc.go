// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/sketchpub/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/sketchpub/config.cue on macOS, %APPDATA%\sketchpub\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden with a
// SKETCHPUB_-prefixed environment variable, e.g. SKETCHPUB_UPLOADER_MODE=script.
//
// Files are validated against an embedded CUE schema (config_schema.cue); the decoded
// Config is validated again through IsValid, which also covers environment overrides and
// the rules that span several keys.
package config
