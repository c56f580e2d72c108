// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultBaseURL is the public Wandbox API root.
	DefaultBaseURL ServiceURL = "https://wandbox.org/api"
	// DefaultUserAgent identifies the client to the service.
	DefaultUserAgent = "wandbox-go/dev"
	// DefaultTimeout bounds each request to the service.
	DefaultTimeout Timeout = "30s"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidServiceURL is returned when base_url is not an absolute http(s) URL.
	ErrInvalidServiceURL = errors.New("invalid service URL")
	// ErrInvalidTimeout is returned when timeout is not a positive duration.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidExcludeConfig is the sentinel error wrapped by InvalidExcludeConfigError.
	ErrInvalidExcludeConfig = errors.New("invalid exclude config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ServiceURL is the root of a Wandbox API, e.g. "https://wandbox.org/api".
	ServiceURL string

	// InvalidServiceURLError is returned when a ServiceURL cannot be used.
	InvalidServiceURLError struct {
		Value  ServiceURL
		Reason string
	}

	// Timeout is a Go duration string such as "30s" or "2m".
	Timeout string

	// InvalidTimeoutError is returned when a Timeout does not parse or is not positive.
	InvalidTimeoutError struct {
		Value Timeout
	}

	// InvalidExcludeConfigError collects blank entries in the exclude lists.
	InvalidExcludeConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError collects field-level errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field-level errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// BaseURL is the Wandbox API root the client talks to.
		BaseURL ServiceURL `json:"base_url" toml:"base_url" mapstructure:"base_url"`
		// UserAgent is sent with every request.
		UserAgent string `json:"user_agent" toml:"user_agent" mapstructure:"user_agent"`
		// Timeout bounds each HTTP request.
		Timeout Timeout `json:"timeout" toml:"timeout" mapstructure:"timeout"`
		// Exclude hides compilers and languages from the catalog.
		Exclude ExcludeConfig `json:"exclude" toml:"exclude" mapstructure:"exclude"`
		// Compile sets request defaults for the compile command.
		Compile CompileConfig `json:"compile" toml:"compile" mapstructure:"compile"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`
	}

	// ExcludeConfig lists catalog entries removed at build time.
	ExcludeConfig struct {
		Compilers []string `json:"compilers" toml:"compilers" mapstructure:"compilers"`
		Languages []string `json:"languages" toml:"languages" mapstructure:"languages"`
	}

	// CompileConfig holds defaults merged into every compile request.
	CompileConfig struct {
		// Save asks the service for a permanent link.
		Save bool `json:"save" toml:"save" mapstructure:"save"`
		// Options are compiler options placed before those given on the command line.
		Options []string `json:"options" toml:"options" mapstructure:"options"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		Exclude: ExcludeConfig{
			Compilers: []string{},
			Languages: []string{},
		},
		Compile: CompileConfig{
			Options: []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.BaseURL.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Timeout.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Exclude.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig together with the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid reports blank compiler or language names.
func (c ExcludeConfig) IsValid() (bool, []error) {
	var errs []error
	for i, name := range c.Compilers {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("exclude.compilers[%d]: must not be blank", i))
		}
	}
	for i, name := range c.Languages {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("exclude.languages[%d]: must not be blank", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidExcludeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidExcludeConfigError.
func (e *InvalidExcludeConfigError) Error() string {
	return fmt.Sprintf("invalid exclude config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidExcludeConfig for errors.Is() compatibility.
func (e *InvalidExcludeConfigError) Unwrap() error { return ErrInvalidExcludeConfig }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// String returns the string representation of the ServiceURL.
func (u ServiceURL) String() string { return string(u) }

// IsValid accepts absolute http and https URLs.
func (u ServiceURL) IsValid() (bool, []error) {
	parsed, err := url.Parse(string(u))
	switch {
	case err != nil:
		return false, []error{&InvalidServiceURLError{Value: u, Reason: err.Error()}}
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		return false, []error{&InvalidServiceURLError{Value: u, Reason: "scheme must be http or https"}}
	case parsed.Host == "":
		return false, []error{&InvalidServiceURLError{Value: u, Reason: "missing host"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServiceURLError.
func (e *InvalidServiceURLError) Error() string {
	return fmt.Sprintf("invalid base_url %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidServiceURL for errors.Is() compatibility.
func (e *InvalidServiceURLError) Unwrap() error { return ErrInvalidServiceURL }

// String returns the string representation of the Timeout.
func (t Timeout) String() string { return string(t) }

// Duration parses the timeout. Callers should check IsValid first.
func (t Timeout) Duration() time.Duration {
	d, err := time.ParseDuration(string(t))
	if err != nil {
		return 0
	}
	return d
}

// IsValid returns whether the Timeout parses to a positive duration.
func (t Timeout) IsValid() (bool, []error) {
	if d, err := time.ParseDuration(string(t)); err != nil || d <= 0 {
		return false, []error{&InvalidTimeoutError{Value: t}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTimeoutError.
func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("invalid timeout %q: must be a positive duration like \"30s\"", e.Value)
}

// Unwrap returns ErrInvalidTimeout for errors.Is() compatibility.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}
