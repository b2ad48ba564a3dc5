// Package logger provides the leveled logging interface used across
// CookieMaster. Backends write to a *log.Logger, a ring buffer read by the
// extension's logs view, or the Windows Event Log.
package logger

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
)

// Level orders log messages by importance. A logger set to a level emits
// messages at that level and every more important one.
type Level int32

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l Level) String() string {
	if l < LevelError || l > LevelTrace {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name, case-insensitively. "WARNING" is
// accepted as an alias for WARN.
func ParseLevel(s string) (Level, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "WARNING" {
		return LevelWarning, nil
	}
	for i, n := range levelNames {
		if n == up {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Logger defines the interface for logging across all CookieMaster components.
type Logger interface {
	// Debug logs detail useful when tracing a single decision.
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "Blocking cookie for .x.com").
	Info(format string, args ...interface{})

	// Warning logs a warning message.
	Warning(format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})

	// Close releases resources held by the logger.
	// Safe to call multiple times. Returns nil for loggers without resources.
	Close() error
}

// Leveled is implemented by loggers whose threshold can change at runtime.
type Leveled interface {
	Level() Level
	SetLevel(Level)
}

// levelGate holds a threshold that can be read and changed concurrently.
type levelGate struct {
	level atomic.Int32
}

func (g *levelGate) Level() Level         { return Level(g.level.Load()) }
func (g *levelGate) SetLevel(l Level)     { g.level.Store(int32(l)) }
func (g *levelGate) enabled(l Level) bool { return l <= g.Level() }

// StandardLogger wraps the stdlib *log.Logger for console/file output.
type StandardLogger struct {
	levelGate
	logger *log.Logger
}

// NewStandardLogger creates a logger that wraps the given *log.Logger and
// emits messages at level INFO and above.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	s := &StandardLogger{logger: l}
	s.SetLevel(LevelInfo)
	return s
}

func (s *StandardLogger) write(l Level, format string, args []interface{}) {
	if !s.enabled(l) {
		return
	}
	s.logger.Printf("["+l.String()+"] "+format, args...)
}

// Debug logs a debug message with [DEBUG] prefix.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	s.write(LevelDebug, format, args)
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.write(LevelInfo, format, args)
}

// Warning logs a warning message with [WARN] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.write(LevelWarning, format, args)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.write(LevelError, format, args)
}

// Close is a no-op for StandardLogger (no resources to release).
func (s *StandardLogger) Close() error {
	return nil
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
func (n *NopLogger) Close() error                               { return nil }

// Ensure implementations satisfy the Logger interface.
var (
	_ Logger  = (*StandardLogger)(nil)
	_ Logger  = (*NopLogger)(nil)
	_ Leveled = (*StandardLogger)(nil)
)

// MockLogger implements Logger for testing purposes.
// It records all log calls for verification in tests.
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
	return &MockLogger{}
}

func (m *MockLogger) record(dst *[]string, format string, args []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

// Debug records the formatted message.
func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(&m.DebugCalls, format, args)
}

// Info records the formatted message.
func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.InfoCalls, format, args)
}

// Warning records the formatted message.
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.WarningCalls, format, args)
}

// Error records the formatted message.
func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.ErrorCalls, format, args)
}

// Close records that Close was called.
func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Snapshot returns copies of the recorded calls, safe to read while other
// goroutines keep logging.
func (m *MockLogger) Snapshot() (debug, info, warning, errs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.DebugCalls...),
		append([]string(nil), m.InfoCalls...),
		append([]string(nil), m.WarningCalls...),
		append([]string(nil), m.ErrorCalls...)
}

// Ensure MockLogger satisfies the Logger interface.
var _ Logger = (*MockLogger)(nil)
