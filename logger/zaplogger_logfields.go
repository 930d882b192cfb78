// zaplogger_logfields.go
package logger

import (
	"go.uber.org/zap"
)

// LogRequest logs one dispatch made by the interceptor: the original call, the retry after a
// refresh, or a passthrough. statusCode is 0 when no response was received.
func (d *defaultLogger) LogRequest(event string, requestID string, method string, url string, statusCode int) {
	fields := []zap.Field{
		zap.String("event", event),
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
	}
	d.Debug("HTTP request dispatched", fields...)
}

// LogRefreshOutcome logs how a token refresh attempt settled.
func (d *defaultLogger) LogRefreshOutcome(requestID string, refreshed bool, reason string) {
	fields := []zap.Field{
		zap.String("event", "token_refresh"),
		zap.String("request_id", requestID),
		zap.Bool("refreshed", refreshed),
		zap.String("reason", reason),
	}
	if refreshed {
		d.Info("Session token refreshed", fields...)
		return
	}
	d.Warn("Session token refresh failed", fields...)
}

// LogRedirect logs a navigation to the login location.
func (d *defaultLogger) LogRedirect(reason string, location string, message string) {
	fields := []zap.Field{
		zap.String("event", "login_redirect"),
		zap.String("reason", reason),
		zap.String("location", location),
		zap.String("message", message),
	}
	d.Info("Redirecting to login", fields...)
}

// LogError logs an error raised while talking to the API. The error is not returned because
// callers of the interceptor only ever see the HTTP response.
func (d *defaultLogger) LogError(event string, method string, url string, statusCode int, err error, message string) {
	fields := []zap.Field{
		zap.String("event", event),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Error(err),
	}
	if d.logLevel <= LogLevelError {
		d.logger.Error(message, fields...)
	}
}
