//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// EventSink is the part of eventlog.Log the EventLogger writes to.
type EventSink interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// openEventSink opens an event source; replaced in tests.
var openEventSink = func(source string) (EventSink, error) {
	l, err := eventlog.Open(source)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// EventLogger writes to the Windows Event Log. Browsers start the native
// messaging host without a console, so this is where its problems show up
// outside the extension. Only warnings and errors are written unless the
// level is raised.
//
// The event source is registered by `cookiemaster native-host install`.
type EventLogger struct {
	levelGate
	sink EventSink
}

// NewEventLogger opens the event source named source.
func NewEventLogger(source string) (*EventLogger, error) {
	sink, err := openEventSink(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return NewEventLoggerWithSink(sink), nil
}

func NewEventLoggerWithSink(sink EventSink) *EventLogger {
	e := &EventLogger{sink: sink}
	e.SetLevel(LevelWarning)
	return e
}

func (e *EventLogger) write(l Level, format string, args []interface{}) {
	if !e.enabled(l) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	// Write failures are dropped; logging must never stop the host.
	switch {
	case l <= LevelError:
		_ = e.sink.Error(EventIDError, msg)
	case l == LevelWarning:
		_ = e.sink.Warning(EventIDWarning, msg)
	default:
		_ = e.sink.Info(EventIDInfo, fmt.Sprintf("[%s] %s", l, msg))
	}
}

func (e *EventLogger) Debug(format string, args ...interface{}) {
	e.write(LevelDebug, format, args)
}

func (e *EventLogger) Info(format string, args ...interface{}) {
	e.write(LevelInfo, format, args)
}

func (e *EventLogger) Warning(format string, args ...interface{}) {
	e.write(LevelWarning, format, args)
}

func (e *EventLogger) Error(format string, args ...interface{}) {
	e.write(LevelError, format, args)
}

func (e *EventLogger) Close() error {
	if e.sink != nil {
		return e.sink.Close()
	}
	return nil
}

var (
	_ Logger  = (*EventLogger)(nil)
	_ Leveled = (*EventLogger)(nil)
)

// InstallEventSource registers the event source so NewEventLogger can open it.
func InstallEventSource(source string) error {
	return eventlog.InstallAsEventCreate(source, eventlog.Error|eventlog.Warning|eventlog.Info)
}

// RemoveEventSource unregisters the event source.
func RemoveEventSource(source string) error {
	return eventlog.Remove(source)
}
