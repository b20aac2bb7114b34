// Package logger provides the package-level structured logger used by the
// parsers package for the handful of observability
// points the spec calls out as "logged, invisible to the consumer" (a
// parser's Detect panicking; registry mutations). It wraps zerolog, trimmed
// down from the teacher's internal/logger: a library must not write to a
// host process's stdout/stderr unless its caller opts in, so the default
// writer discards everything until SetOutput or SetLogger is called.
package logger

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(io.Discard)
)

// SetOutput directs subsequent log output at w, using zerolog's default
// JSON encoding. Pass os.Stderr to see core diagnostics while debugging a
// caller's integration.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLogger replaces the package logger outright, for callers that want
// full control over level, sampling, or hooks.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// Get returns the current logger. Safe for concurrent use; the returned
// value is a snapshot (zerolog.Logger is itself immutable/value-typed).
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug starts a debug-level event on the current logger.
func Debug() *zerolog.Event { return Get().Debug() }

// Warn starts a warn-level event on the current logger.
func Warn() *zerolog.Event { return Get().Warn() }
