// Package logging provides the leveled callback the core calls for events
// it cannot fail on but the caller may want to observe — chiefly the
// version_conflict warning emitted during removal of a stale term.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors the spec's logger(level, msg, code?) callback levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the injectable sink for index lifecycle events. Code is empty
// for ad-hoc messages; the version_conflict warning always sets it.
type Logger interface {
	Log(level Level, msg string, code string)
}

// Func adapts a plain function to the Logger interface.
type Func func(level Level, msg string, code string)

func (f Func) Log(level Level, msg string, code string) { f(level, msg, code) }

// Nop discards every event. jobs.NewManager uses it when given no logger;
// config.Options.ApplyDefaults uses NewDefault instead.
var Nop Logger = Func(func(Level, string, string) {})

// zerologLogger is the default Logger, writing structured events to
// stderr via zerolog the way other_examples' mneme module wires it.
type zerologLogger struct {
	logger zerolog.Logger
}

// NewDefault returns the default Logger: zerolog writing to stderr, with a
// "code" field attached whenever the caller supplies one.
func NewDefault() Logger {
	return &zerologLogger{logger: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

func (z *zerologLogger) Log(level Level, msg string, code string) {
	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = z.logger.Debug()
	case LevelInfo:
		event = z.logger.Info()
	case LevelWarn:
		event = z.logger.Warn()
	case LevelError:
		event = z.logger.Error()
	default:
		event = z.logger.Info()
	}
	if code != "" {
		event = event.Str("code", code)
	}
	event.Msg(msg)
}

// VersionConflict logs the lazy-removal inconsistency the lifecycle layer
// tolerates: a processed term absent from the index for the expected
// (field, short_id) pair during removal.
func VersionConflict(l Logger, msg string) {
	if l == nil {
		l = Nop
	}
	l.Log(LevelWarn, msg, "version_conflict")
}
