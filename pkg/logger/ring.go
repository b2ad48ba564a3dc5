package logger

import (
	"fmt"
	"sync"
	"time"
)

// DefaultRingSize is the number of entries kept for the logs view.
const DefaultRingSize = 1000

// Entry is one message held by a RingLogger.
type Entry struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// RingLogger keeps the most recent messages in memory so the extension can
// page through them. Sequence numbers increase monotonically, so a reader
// can ask only for what it has not seen.
type RingLogger struct {
	levelGate
	mu      sync.Mutex
	entries []Entry
	start   int
	seq     uint64
	now     func() time.Time
}

// NewRingLogger creates a ring of the given size (DefaultRingSize when
// size <= 0) at level INFO.
func NewRingLogger(size int) *RingLogger {
	if size <= 0 {
		size = DefaultRingSize
	}
	r := &RingLogger{entries: make([]Entry, 0, size), now: time.Now}
	r.SetLevel(LevelInfo)
	return r
}

func (r *RingLogger) write(l Level, format string, args []interface{}) {
	if !r.enabled(l) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e := Entry{Seq: r.seq, Time: r.now(), Level: l, Message: msg}
	if len(r.entries) < cap(r.entries) {
		r.entries = append(r.entries, e)
		return
	}
	r.entries[r.start] = e
	r.start = (r.start + 1) % len(r.entries)
}

func (r *RingLogger) Debug(format string, args ...interface{}) {
	r.write(LevelDebug, format, args)
}

func (r *RingLogger) Info(format string, args ...interface{}) {
	r.write(LevelInfo, format, args)
}

func (r *RingLogger) Warning(format string, args ...interface{}) {
	r.write(LevelWarning, format, args)
}

func (r *RingLogger) Error(format string, args ...interface{}) {
	r.write(LevelError, format, args)
}

func (r *RingLogger) Close() error { return nil }

// Entries returns the held entries with a sequence number above since, oldest
// first.
func (r *RingLogger) Entries(since uint64) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.entries))
	for i := 0; i < len(r.entries); i++ {
		e := r.entries[(r.start+i)%len(r.entries)]
		if e.Seq > since {
			out = append(out, e)
		}
	}
	return out
}

var (
	_ Logger  = (*RingLogger)(nil)
	_ Leveled = (*RingLogger)(nil)
)
