// logger.go
package logger

// Ref: https://betterstack.com/community/guides/logging/go/zap/#logging-errors-with-zap
import (
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the level of logging. Higher values denote more severe log messages.
type LogLevel int

const (
	// LogLevelDebug is for messages that are useful during software debugging.
	LogLevelDebug LogLevel = -1 // Zap's DEBUG level
	// LogLevelInfo is for informational messages, indicating normal operation.
	LogLevelInfo LogLevel = 0 // Zap's INFO level
	// LogLevelWarn is for messages that highlight potential issues in the system.
	LogLevelWarn LogLevel = 1 // Zap's WARN level
	// LogLevelError is for messages that highlight errors in the application's execution.
	LogLevelError LogLevel = 2 // Zap's ERROR level
	// LogLevelDPanic is for severe error conditions that are actionable in development.
	LogLevelDPanic LogLevel = 3 // Zap's DPANIC level
	// LogLevelPanic is for severe error conditions that should cause the program to panic.
	LogLevelPanic LogLevel = 4 // Zap's PANIC level
	// LogLevelFatal is for errors that require immediate program termination.
	LogLevelFatal LogLevel = 5 // Zap's FATAL level
	LogLevelNone  LogLevel = 6
)

// ParseLogLevelFromString takes a string representation of the log level and returns the corresponding LogLevel.
// Used to convert a string log level from a configuration file to a strongly-typed LogLevel.
func ParseLogLevelFromString(levelStr string) LogLevel {
	switch levelStr {
	case "LogLevelDebug":
		return LogLevelDebug
	case "LogLevelInfo":
		return LogLevelInfo
	case "LogLevelWarn":
		return LogLevelWarn
	case "LogLevelError":
		return LogLevelError
	case "LogLevelDPanic":
		return LogLevelDPanic
	case "LogLevelPanic":
		return LogLevelPanic
	case "LogLevelFatal":
		return LogLevelFatal
	default:
		return LogLevelNone
	}
}

// Logger interface with structured logging capabilities at various levels, plus the
// auth lifecycle events emitted by the interceptor.
type Logger interface {
	SetLevel(level LogLevel)
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field) error
	Panic(msg string, fields ...zapcore.Field)
	Fatal(msg string, fields ...zapcore.Field)
	With(fields ...zapcore.Field) Logger
	GetLogLevel() LogLevel

	// Auth lifecycle events
	LogRequest(event string, requestID string, method string, url string, statusCode int)
	LogRefreshOutcome(requestID string, refreshed bool, reason string)
	LogRedirect(reason string, location string, message string)
	LogError(event string, method string, url string, statusCode int, err error, message string)
}

// defaultLogger is an implementation of the Logger interface using Uber's zap logging library.
// The logLevel field filters messages before they reach zap.
type defaultLogger struct {
	logger   *zap.Logger // logger holds the reference to the zap.Logger instance.
	logLevel LogLevel    // logLevel determines the current logging level (e.g., DEBUG, INFO, WARN).
}

// NewLogger wraps an existing zap.Logger. Useful when the host application already owns a zap setup.
func NewLogger(z *zap.Logger, level LogLevel) Logger {
	return &defaultLogger{logger: z, logLevel: level}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return &defaultLogger{logger: zap.NewNop(), logLevel: LogLevelNone}
}

// SetLevel updates the logging level of the logger.
func (d *defaultLogger) SetLevel(level LogLevel) {
	d.logLevel = level
}

// Debug logs a message at the Debug level.
func (d *defaultLogger) Debug(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelDebug {
		d.logger.Debug(msg, fields...)
	}
}

// Info logs a message at the Info level.
func (d *defaultLogger) Info(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelInfo {
		d.logger.Info(msg, fields...)
	}
}

// Warn logs a message at the Warn level.
func (d *defaultLogger) Warn(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelWarn {
		d.logger.Warn(msg, fields...)
	}
}

// Error logs a message at the Error level and returns it as an error, so call sites
// can write `return log.Error(...)`.
func (d *defaultLogger) Error(msg string, fields ...zapcore.Field) error {
	if d.logLevel <= LogLevelError {
		d.logger.Error(msg, fields...)
	}
	return errors.New(msg)
}

// Panic logs a message at the Panic level and then panics.
func (d *defaultLogger) Panic(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelPanic {
		d.logger.Panic(msg, fields...)
	}
}

// Fatal logs a message at the Fatal level and then calls os.Exit(1).
func (d *defaultLogger) Fatal(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelFatal {
		d.logger.Fatal(msg, fields...)
	}
}

// With adds contextual fields to the logger, returning a new logger instance with the context.
func (d *defaultLogger) With(fields ...zapcore.Field) Logger {
	return &defaultLogger{
		logger:   d.logger.With(fields...),
		logLevel: d.logLevel,
	}
}

// GetLogLevel returns the current logging level of the logger.
func (d *defaultLogger) GetLogLevel() LogLevel {
	return d.logLevel
}
