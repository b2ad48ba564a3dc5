package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestStandardLogger_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l *StandardLogger)
		prefix string
		text   string
	}{
		{"info", func(l *StandardLogger) { l.Info("test message %d", 123) }, "[INFO]", "test message 123"},
		{"warning", func(l *StandardLogger) { l.Warning("warning message %s", "test") }, "[WARN]", "warning message test"},
		{"error", func(l *StandardLogger) { l.Error("error message: %v", "failed") }, "[ERROR]", "error message: failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(NewStandardLogger(log.New(buf, "", 0)))
			output := buf.String()
			if !strings.Contains(output, tt.prefix) {
				t.Errorf("expected %s prefix, got: %s", tt.prefix, output)
			}
			if !strings.Contains(output, tt.text) {
				t.Errorf("expected message content, got: %s", output)
			}
		})
	}
}

func TestStandardLogger_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewStandardLogger(log.New(buf, "", 0))

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at INFO level: %q", buf.String())
	}

	logger.SetLevel(LevelDebug)
	logger.Debug("cookie %s", "sid")
	if !strings.Contains(buf.String(), "[DEBUG] cookie sid") {
		t.Errorf("expected debug output, got %q", buf.String())
	}

	buf.Reset()
	logger.SetLevel(LevelError)
	logger.Warning("hidden")
	logger.Error("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output at ERROR level: %q", buf.String())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"error", LevelError},
		{"WARN", LevelWarning},
		{"warning", LevelWarning},
		{" Info ", LevelInfo},
		{"debug", LevelDebug},
		{"TRACE", LevelTrace},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if s := Level(42).String(); s != "LEVEL(42)" {
		t.Errorf("unexpected name %q", s)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()

	// Should not panic
	logger.Debug("test")
	logger.Info("test")
	logger.Warning("test")
	logger.Error("test")

	if err := logger.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	logger := NewMockLogger()

	logger.Debug("debug %d", 0)
	logger.Info("info %d", 1)
	logger.Info("info %d", 2)
	logger.Warning("warn %s", "test")
	logger.Error("err %v", "fail")

	debug, info, warning, errs := logger.Snapshot()
	if len(debug) != 1 || debug[0] != "debug 0" {
		t.Errorf("unexpected debug calls %v", debug)
	}
	if len(info) != 2 || info[0] != "info 1" || info[1] != "info 2" {
		t.Errorf("unexpected info calls %v", info)
	}
	if len(warning) != 1 || warning[0] != "warn test" {
		t.Errorf("unexpected warning calls %v", warning)
	}
	if len(errs) != 1 || errs[0] != "err fail" {
		t.Errorf("unexpected error calls %v", errs)
	}

	if logger.CloseCalled {
		t.Error("CloseCalled should be false initially")
	}
	_ = logger.Close()
	if !logger.CloseCalled {
		t.Error("CloseCalled should be true after Close()")
	}
}

func TestMultiLogger_BroadcastsToAll(t *testing.T) {
	mock1 := NewMockLogger()
	mock2 := NewMockLogger()

	multi := NewMultiLogger(mock1, mock2)

	multi.Debug("debug msg")
	multi.Info("info msg")
	multi.Warning("warn msg")
	multi.Error("error msg")

	for i, m := range []*MockLogger{mock1, mock2} {
		debug, info, warning, errs := m.Snapshot()
		if len(debug) != 1 || len(info) != 1 || len(warning) != 1 || len(errs) != 1 {
			t.Errorf("logger %d missed messages: %v %v %v %v", i, debug, info, warning, errs)
		}
	}
}

func TestMultiLogger_Levels(t *testing.T) {
	ring := NewRingLogger(10)
	std := NewStandardLogger(log.New(&bytes.Buffer{}, "", 0))
	multi := NewMultiLogger(ring, std, NewNopLogger())

	if multi.Level() != LevelInfo {
		t.Errorf("level = %v, want INFO", multi.Level())
	}
	multi.SetLevel(LevelTrace)
	if ring.Level() != LevelTrace || std.Level() != LevelTrace {
		t.Error("SetLevel did not reach every leveled backend")
	}
}

func TestMultiLogger_EmptyLoggers(t *testing.T) {
	multi := NewMultiLogger()

	// Should not panic with no loggers
	multi.Info("test")
	multi.Warning("test")
	multi.Error("test")
	if err := multi.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

// FailingCloseLogger is a logger that returns an error on Close().
type FailingCloseLogger struct {
	NopLogger
	closeErr error
}

func (f *FailingCloseLogger) Close() error {
	return f.closeErr
}

var _ Logger = (*FailingCloseLogger)(nil)

func TestMultiLogger_Close_ReturnsFirstError(t *testing.T) {
	err1 := errors.New("logger1 failed to close")
	err2 := errors.New("logger2 failed to close")
	mock := NewMockLogger()

	multi := NewMultiLogger(&FailingCloseLogger{closeErr: err1}, mock, &FailingCloseLogger{closeErr: err2})

	if err := multi.Close(); !errors.Is(err, err1) {
		t.Errorf("expected first error %v, got %v", err1, err)
	}
	if !mock.CloseCalled {
		t.Error("expected mock logger to be closed even after first error")
	}
}
