// Package logger provides the leveled logging interface used across xplore.
// The core library never logs cookie values, passwords or second-factor
// secrets; only cookie names, counts and flow progress reach a Logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// Level is the minimum severity a StandardLogger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel maps a config string ("debug", "info", "warning", "error")
// to a Level. The empty string means LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Logger defines the interface for leveled logging across all xplore components.
type Logger interface {
	// Debug logs flow-level detail (e.g., "login round 2: LoginEnterPassword").
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "login succeeded").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g., "skipping malformed Set-Cookie").
	Warning(format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})

	// Close releases resources held by the logger.
	// Safe to call multiple times. Returns nil for loggers without resources.
	Close() error
}

// StandardLogger wraps the stdlib *log.Logger and drops messages below
// its threshold.
type StandardLogger struct {
	logger *log.Logger
	level  Level
	closer io.Closer
}

// NewStandardLogger creates a logger that writes everything at LevelInfo and
// above to l.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l, level: LevelInfo}
}

// NewLeveledLogger creates a logger that writes messages at level and above.
func NewLeveledLogger(l *log.Logger, level Level) *StandardLogger {
	return &StandardLogger{logger: l, level: level}
}

// NewFileLogger logs to w at level and above. Close closes w.
func NewFileLogger(w io.WriteCloser, level Level) *StandardLogger {
	return &StandardLogger{logger: log.New(w, "", log.LstdFlags), level: level, closer: w}
}

func (s *StandardLogger) logf(level Level, format string, args ...interface{}) {
	if level < s.level {
		return
	}
	s.logger.Printf("["+level.String()+"] "+format, args...)
}

// Debug logs a message with [DEBUG] prefix.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	s.logf(LevelDebug, format, args...)
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logf(LevelInfo, format, args...)
}

// Warning logs a warning message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logf(LevelWarning, format, args...)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logf(LevelError, format, args...)
}

// Close closes the file behind a NewFileLogger and is a no-op otherwise.
func (s *StandardLogger) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// NopLogger is a logger that discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}

// Close is a no-op.
func (n *NopLogger) Close() error {
	return nil
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger implements Logger for testing purposes.
// It records all log calls for verification in tests and is safe for
// concurrent use.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		DebugCalls:   make([]string, 0),
		InfoCalls:    make([]string, 0),
		WarningCalls: make([]string, 0),
		ErrorCalls:   make([]string, 0),
	}
}

func (m *MockLogger) record(dst *[]string, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

// Debug records the formatted message.
func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(&m.DebugCalls, format, args...)
}

// Info records the formatted message.
func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.InfoCalls, format, args...)
}

// Warning records the formatted message.
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.WarningCalls, format, args...)
}

// Error records the formatted message.
func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.ErrorCalls, format, args...)
}

// All returns every recorded message regardless of level, in level order.
func (m *MockLogger) All() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.DebugCalls)+len(m.InfoCalls)+len(m.WarningCalls)+len(m.ErrorCalls))
	out = append(out, m.DebugCalls...)
	out = append(out, m.InfoCalls...)
	out = append(out, m.WarningCalls...)
	out = append(out, m.ErrorCalls...)
	return out
}

// Close records that Close was called.
func (m *MockLogger) Close() error {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
	return nil
}

var _ Logger = (*MockLogger)(nil)
