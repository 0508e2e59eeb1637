package config

import (
	"io"
	"log/slog"
	"os"
)

// EnvDebug enables debug logging when set to a non-empty value.
const EnvDebug = "CAPTURE_DEBUG"

// Logger provides structured logging for installer and capture operations.
// This interface allows callers to plug in their own logging implementation.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...any) {}
func (noopLogger) Info(msg string, keysAndValues ...any)  {}
func (noopLogger) Warn(msg string, keysAndValues ...any)  {}
func (noopLogger) Error(msg string, keysAndValues ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return noopLogger{}
}

// NewLogger returns an slog-backed Logger writing text records to w.
// Debug records are emitted only when debug is true.
func NewLogger(w io.Writer, debug bool) Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DebugEnabled reports whether CAPTURE_DEBUG is set.
func DebugEnabled() bool {
	return os.Getenv(EnvDebug) != ""
}
