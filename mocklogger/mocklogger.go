// mocklogger/mocklogger.go
package mocklogger

import (
	"errors"

	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockLogger is a mock type for the Logger interface, embedding a *zap.Logger to satisfy the type requirement.
// Every call is recorded; tests that do not care about logging can use NewPermissiveMockLogger.
type MockLogger struct {
	mock.Mock
	*zap.Logger
	logLevel logger.LogLevel
}

// NewMockLogger creates a new instance of MockLogger with an embedded no-op *zap.Logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		Logger: zap.NewNop(),
	}
}

// NewPermissiveMockLogger returns a MockLogger that accepts any call without explicit expectations.
func NewPermissiveMockLogger() *MockLogger {
	m := NewMockLogger()
	for _, method := range []string{"Debug", "Info", "Warn", "Error", "Panic", "Fatal"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("SetLevel", mock.Anything).Maybe()
	m.On("With", mock.Anything).Maybe()
	m.On("LogRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("LogRefreshOutcome", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("LogRedirect", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("LogError", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return m
}

// Ensure MockLogger implements the logger.Logger interface from the logger package
var _ logger.Logger = (*MockLogger)(nil)

// GetLogLevel returns the level recorded by SetLevel.
func (m *MockLogger) GetLogLevel() logger.LogLevel {
	return m.logLevel
}

// SetLevel sets the logging level of the MockLogger.
func (m *MockLogger) SetLevel(level logger.LogLevel) {
	m.logLevel = level
	m.Called(level)
}

// With records the call and returns the same mock so child loggers share expectations.
func (m *MockLogger) With(fields ...zap.Field) logger.Logger {
	m.Called(fields)
	return m
}

// Debug logs a message at the Debug level.
func (m *MockLogger) Debug(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// Info logs a message at the Info level.
func (m *MockLogger) Info(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// Error logs a message at the Error level and returns an error carrying the message.
func (m *MockLogger) Error(msg string, fields ...zap.Field) error {
	m.Called(msg, fields)
	return errors.New(msg)
}

// Warn logs a message at the Warn level.
func (m *MockLogger) Warn(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// Panic logs a message at the Panic level.
func (m *MockLogger) Panic(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// Fatal logs a message at the Fatal level.
func (m *MockLogger) Fatal(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// LogRequest records a dispatch event.
func (m *MockLogger) LogRequest(event string, requestID string, method string, url string, statusCode int) {
	m.Called(event, requestID, method, url, statusCode)
}

// LogRefreshOutcome records a refresh outcome.
func (m *MockLogger) LogRefreshOutcome(requestID string, refreshed bool, reason string) {
	m.Called(requestID, refreshed, reason)
}

// LogRedirect records a login redirect.
func (m *MockLogger) LogRedirect(reason string, location string, message string) {
	m.Called(reason, location, message)
}

// LogError records an error event.
func (m *MockLogger) LogError(event string, method string, url string, statusCode int, err error, message string) {
	m.Called(event, method, url, statusCode, err, message)
}
