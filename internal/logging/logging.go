// Package logging builds the zerolog loggers used across colony-counter.
//
// All logs go to stderr: stdout carries report output and, in serve mode, the
// MCP protocol stream.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "COLONY_LOG_LEVEL"

// New returns a logger writing to w at the given level. When jsonOutput is
// false, records are rendered by zerolog's ConsoleWriter.
func New(w io.Writer, level zerolog.Level, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel accepts debug, info, warn, warning and error (case-insensitive).
// An empty string selects info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}

// Component returns a child logger tagged with a component field.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
