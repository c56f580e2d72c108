// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/wandbox/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/wandbox/config.cue on macOS, %APPDATA%\wandbox\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden from the
// environment with the WANDBOX_ prefix, e.g. WANDBOX_BASE_URL or WANDBOX_EXCLUDE_COMPILERS.
//
// Files are validated against the embedded schema (config_schema.cue) before being
// merged over the defaults.
package config
