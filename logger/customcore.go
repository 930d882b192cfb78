package logger

import (
	"go.uber.org/zap/zapcore"
)

// customCore keeps the correlation fields at the head of every entry so a request can be
// followed through refresh and retry without hunting through the line.
type customCore struct {
	zapcore.Core
}

var leadingFieldKeys = []string{"event", "request_id"}

// With adds structured context to the Core.
func (c *customCore) With(fields []zapcore.Field) zapcore.Core {
	return &customCore{c.Core.With(fields)}
}

// Write moves the leading fields to the front and hands the entry to the wrapped core.
func (c *customCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, reorderFields(fields))
}

// Check determines whether the supplied Entry should be logged.
func (c *customCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, c)
	}
	return checkedEntry
}

// Sync flushes buffered logs (if any).
func (c *customCore) Sync() error {
	return c.Core.Sync()
}

func reorderFields(fields []zapcore.Field) []zapcore.Field {
	leading := make([]zapcore.Field, 0, len(leadingFieldKeys))
	rest := make([]zapcore.Field, 0, len(fields))
	for _, key := range leadingFieldKeys {
		for _, field := range fields {
			if field.Key == key {
				leading = append(leading, field)
			}
		}
	}
	for _, field := range fields {
		if !isLeadingKey(field.Key) {
			rest = append(rest, field)
		}
	}
	return append(leading, rest...)
}

func isLeadingKey(key string) bool {
	for _, k := range leadingFieldKeys {
		if k == key {
			return true
		}
	}
	return false
}
