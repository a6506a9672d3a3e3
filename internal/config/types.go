// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// UploaderDialog shows the interactive publish dialog.
	UploaderDialog UploaderMode = "dialog"
	// UploaderScript runs the configured upload script without prompting.
	UploaderScript UploaderMode = "script"

	// LogLevelDebug logs state transitions.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable publish failures only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// DefaultSourcePrefix names the exporting host in the upload source tag.
	DefaultSourcePrefix SourcePrefix = "solidworks"
	// DefaultDialogTheme is the huh theme used by the publish dialog.
	DefaultDialogTheme DialogTheme = "charm"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidUploaderMode is returned when an UploaderMode value is not recognized.
	ErrInvalidUploaderMode = errors.New("invalid uploader mode")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidDialogTheme is returned when a DialogTheme value is not recognized.
	ErrInvalidDialogTheme = errors.New("invalid dialog theme")
	// ErrInvalidSourcePrefix is returned when a SourcePrefix is not a lower-case slug.
	ErrInvalidSourcePrefix = errors.New("invalid source prefix")
	// ErrInvalidOptionalPath is returned when an OptionalPath is whitespace-only.
	ErrInvalidOptionalPath = errors.New("invalid path")
	// ErrMissingUploadScript is returned when script mode or handoff has no script.
	ErrMissingUploadScript = errors.New("no upload script configured")
	// ErrAmbiguousUploadScript is returned when both an inline script and a script file are set.
	ErrAmbiguousUploadScript = errors.New("both uploader.script and uploader.script_file are set")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

var sourcePrefixPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// UploaderMode selects the hostapi.Uploader used by publish.
	UploaderMode string

	// LogLevel is the minimum level written by the CLI logger.
	LogLevel string

	// DialogTheme names a huh form theme.
	DialogTheme string

	// SourcePrefix is the host part of the source tag, e.g. "solidworks".
	SourcePrefix string

	// OptionalPath is a filesystem path whose zero value means "use the default".
	// Non-zero values must not be whitespace-only.
	OptionalPath string

	// InvalidValueError is returned by IsValid on the enumerated config types.
	InvalidValueError struct {
		Field  string
		Value  string
		Valid  []string
		Reason error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// TempDir is where export artifacts are created; empty uses the OS temp dir.
		TempDir OptionalPath `json:"temp_dir" mapstructure:"temp_dir"`
		// Log configures the CLI logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Uploader selects and configures the uploader.
		Uploader UploaderConfig `json:"uploader" mapstructure:"uploader"`
		// Publish configures the publish workflow.
		Publish PublishConfig `json:"publish" mapstructure:"publish"`
		// Host configures the workspace host.
		Host HostConfig `json:"host" mapstructure:"host"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Accessible renders the publish dialog as plain prompts
		Accessible bool `json:"accessible" mapstructure:"accessible"`
		// Theme is the publish dialog theme
		Theme DialogTheme `json:"theme" mapstructure:"theme"`
	}

	// UploaderConfig configures how a publish run hands off the artifact.
	UploaderConfig struct {
		Mode UploaderMode `json:"mode" mapstructure:"mode"`
		// Script is an inline upload script.
		Script string `json:"script" mapstructure:"script"`
		// ScriptFile is a path to an upload script.
		ScriptFile OptionalPath `json:"script_file" mapstructure:"script_file"`
		// Handoff runs the script after the user confirms the dialog.
		Handoff bool `json:"handoff" mapstructure:"handoff"`
	}

	// PublishConfig configures the publish workflow.
	PublishConfig struct {
		SourcePrefix SourcePrefix `json:"source_prefix" mapstructure:"source_prefix"`
		// AllowExportErrors shows the dialog even when the export failed.
		AllowExportErrors bool `json:"allow_export_errors" mapstructure:"allow_export_errors"`
	}

	// HostConfig configures the workspace host.
	HostConfig struct {
		// PreferencesFile holds the host preferences; empty uses preferences.toml
		// in the config directory.
		PreferencesFile OptionalPath `json:"preferences_file" mapstructure:"preferences_file"`
		// Revision is the host revision string; empty reports the built-in default.
		Revision string `json:"revision" mapstructure:"revision"`
	}
)

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	if len(e.Valid) > 0 {
		return fmt.Sprintf("invalid %s %q (valid: %s)", e.Field, e.Value, strings.Join(e.Valid, ", "))
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Unwrap returns the field's sentinel error for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.Reason }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "color scheme", Value: string(cs), Valid: []string{"auto", "dark", "light"}, Reason: ErrInvalidColorScheme}}
	}
}

// String returns the string representation of the UploaderMode.
func (m UploaderMode) String() string { return string(m) }

// IsValid returns whether the UploaderMode is dialog or script.
func (m UploaderMode) IsValid() (bool, []error) {
	switch m {
	case UploaderDialog, UploaderScript:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "uploader mode", Value: string(m), Valid: []string{"dialog", "script"}, Reason: ErrInvalidUploaderMode}}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is a known level.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "log level", Value: string(l), Valid: []string{"debug", "info", "warn", "error"}, Reason: ErrInvalidLogLevel}}
	}
}

// String returns the string representation of the DialogTheme.
func (th DialogTheme) String() string { return string(th) }

// IsValid returns whether the DialogTheme is a known huh theme.
func (th DialogTheme) IsValid() (bool, []error) {
	switch th {
	case "default", "charm", "dracula", "catppuccin", "base16":
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "dialog theme", Value: string(th), Valid: []string{"default", "charm", "dracula", "catppuccin", "base16"}, Reason: ErrInvalidDialogTheme}}
	}
}

// String returns the string representation of the SourcePrefix.
func (p SourcePrefix) String() string { return string(p) }

// IsValid returns whether the SourcePrefix is a lower-case slug.
func (p SourcePrefix) IsValid() (bool, []error) {
	if !sourcePrefixPattern.MatchString(string(p)) {
		return false, []error{&InvalidValueError{Field: "source prefix", Value: string(p), Reason: ErrInvalidSourcePrefix}}
	}
	return true, nil
}

// String returns the string representation of the OptionalPath.
func (p OptionalPath) String() string { return string(p) }

// IsValid returns whether the OptionalPath is valid.
// The zero value is valid; non-zero values must not be whitespace-only.
func (p OptionalPath) IsValid() (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidValueError{Field: "path", Value: string(p), Reason: ErrInvalidOptionalPath}}
	}
	return true, nil
}

// IsValid returns whether the UploaderConfig is consistent: script mode and
// handoff need exactly one script source.
func (c UploaderConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Mode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ScriptFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	hasInline := strings.TrimSpace(c.Script) != ""
	if hasInline && c.ScriptFile != "" {
		errs = append(errs, ErrAmbiguousUploadScript)
	}
	if (c.Mode == UploaderScript || c.Handoff) && !hasInline && c.ScriptFile == "" {
		errs = append(errs, ErrMissingUploadScript)
	}
	return len(errs) == 0, errs
}

// HasScript reports whether an upload script is configured.
func (c UploaderConfig) HasScript() bool {
	return strings.TrimSpace(c.Script) != "" || c.ScriptFile != ""
}

// IsValid returns whether the Config has valid fields, collecting the errors
// of every section.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	checks := []func() (bool, []error){
		c.TempDir.IsValid,
		c.Log.Level.IsValid,
		c.UI.ColorScheme.IsValid,
		c.UI.Theme.IsValid,
		c.Uploader.IsValid,
		c.Publish.SourcePrefix.IsValid,
		c.Host.PreferencesFile.IsValid,
	}
	for _, check := range checks {
		if valid, fieldErrs := check(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is()
// matches both the sentinel and the field-level sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TempDir: "",
		Log:     LogConfig{Level: LogLevelInfo},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Accessible:  false,
			Theme:       DefaultDialogTheme,
		},
		Uploader: UploaderConfig{
			Mode: UploaderDialog,
		},
		Publish: PublishConfig{
			SourcePrefix:      DefaultSourcePrefix,
			AllowExportErrors: false,
		},
		Host: HostConfig{},
	}
}
