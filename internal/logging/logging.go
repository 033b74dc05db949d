// SPDX-License-Identifier: MPL-2.0

// Package logging builds the slog loggers used across atlasscan. Records are
// formatted by charmbracelet/log.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Level is the minimum level emitted.
	Level slog.Level
	// Prefix is printed before every message, e.g. "watch".
	Prefix string
	// ReportTimestamp adds a timestamp column.
	ReportTimestamp bool
}

// New returns a logger writing to w (os.Stderr when nil).
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

// NewHandler returns the charmbracelet/log handler behind New.
func NewHandler(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(io.Discard, Options{Level: slog.LevelError + 1})
}
