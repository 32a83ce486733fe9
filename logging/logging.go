// Copyright © 2024 The StrataRegula authors

// Package logging builds the charmbracelet loggers used by the server and
// the CLI.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a text logger writing to w. A nil writer means stderr,
// which keeps stdout free for the stdio transport.
func New(prefix string, w io.Writer, level log.Level) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
