// zaplogger_config.go
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON   = "json"
	LogOutputPretty = "pretty"
)

// BuildLogger creates and returns a new zap-backed Logger.
// "pretty" selects the console encoder with coloured levels, anything else emits JSON.
// The function panics if the logger cannot be initialized.
func BuildLogger(logLevel LogLevel, logOutputFormat string, logConsoleSeparator string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()

	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.MessageKey = "msg"
	encoderCfg.LevelKey = "level"
	encoderCfg.NameKey = "logger"
	encoderCfg.StacktraceKey = "stacktrace"
	encoderCfg.LineEnding = zapcore.DefaultLineEnding
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder
	encoderCfg.EncodeName = zapcore.FullNameEncoder

	encoding := LogOutputJSON
	if logOutputFormat == LogOutputPretty {
		encoding = "console"
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderCfg.ConsoleSeparator = logConsoleSeparator
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(logLevel)),
		Development:       false,
		Encoding:          encoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		Sampling:          nil,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"}, // zap internal errors only
	}

	logger := zap.Must(config.Build())

	wrappedCore := &customCore{logger.Core()}

	return NewLogger(zap.New(wrappedCore), logLevel)
}

// convertToZapLevel converts the custom LogLevel to a zapcore.Level
func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelError:
		return zap.ErrorLevel
	case LogLevelDPanic:
		return zap.DPanicLevel
	case LogLevelPanic:
		return zap.PanicLevel
	case LogLevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
