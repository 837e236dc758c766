// Package log provides the logging facade used across the library, with a
// zap-backed implementation and a no-op implementation.
//
// Maelstrom nodes own stdout for protocol traffic, so loggers must only ever
// write to stderr (which the orchestrator captures) or another side channel.
package log

import "os"

// Level specifies the minimum severity a logger emits.
type Level int

const (
	// DebugLevel logs everything.
	DebugLevel Level = iota
	// InfoLevel logs informational messages and above.
	InfoLevel
	// WarnLevel logs warnings and errors.
	WarnLevel
	// ErrorLevel logs errors only.
	ErrorLevel
)

// Logger is the logging contract the library depends on.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(v ...any)
	// Debugf logs a formatted message at debug level.
	Debugf(format string, v ...any)
	// Info logs a message at info level.
	Info(v ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, v ...any)
	// Warn logs a message at warn level.
	Warn(v ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, v ...any)
	// Error logs a message at error level.
	Error(v ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, v ...any)
	// LogLevel returns the logger's level.
	LogLevel() Level
}

var (
	// DiscardLogger is a no-op logger that drops all messages. It is the
	// library default: the runtime is silent unless configured otherwise.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger logs at info level and above to stderr.
	DefaultLogger Logger = NewZap(InfoLevel, os.Stderr)

	// DebugLogger logs at debug level and above to stderr.
	DebugLogger Logger = NewZap(DebugLevel, os.Stderr)
)
