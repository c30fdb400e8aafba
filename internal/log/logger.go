// Package log provides structured logging for migrakit.
package log

import (
	"io"
	"log/slog"
	"os"
)

var (
	// Logger is the global logger instance. It writes to stderr so that
	// reports printed on stdout stay machine-readable.
	Logger *slog.Logger

	output io.Writer = os.Stderr
	level            = new(slog.LevelVar)
)

func init() {
	level.Set(slog.LevelWarn)
	Logger = newLogger()
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetLevel sets the logging level
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetOutput redirects the logger, mostly for tests
func SetOutput(w io.Writer) {
	output = w
	Logger = newLogger()
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// With returns a logger with additional attributes
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}
