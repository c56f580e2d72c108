// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger: a charmbracelet/log handler
// behind the standard log/slog front end, so library packages only depend on slog.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the CLI logger.
const Prefix = "wandbox"

// New returns a slog logger writing styled lines to w. Debug records are
// emitted only when verbose is set; otherwise warnings and errors pass.
func New(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewHandler(w, verbose))
}

// NewHandler returns the underlying charmbracelet/log logger, which
// implements slog.Handler.
func NewHandler(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, false))
}
