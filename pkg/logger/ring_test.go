package logger

import (
	"fmt"
	"testing"
)

func TestRingLogger_KeepsMostRecent(t *testing.T) {
	r := NewRingLogger(3)
	for i := 1; i <= 5; i++ {
		r.Info("msg %d", i)
	}
	got := r.Entries(0)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, e := range got {
		want := fmt.Sprintf("msg %d", i+3)
		if e.Message != want || e.Seq != uint64(i+3) {
			t.Errorf("entry %d = %+v, want %q seq %d", i, e, want, i+3)
		}
		if e.Level != LevelInfo {
			t.Errorf("entry %d level = %v", i, e.Level)
		}
	}
}

func TestRingLogger_Since(t *testing.T) {
	r := NewRingLogger(0)
	r.Error("a")
	r.Warning("b")
	r.Info("c")
	got := r.Entries(2)
	if len(got) != 1 || got[0].Message != "c" {
		t.Errorf("Entries(2) = %+v", got)
	}
	if len(r.Entries(3)) != 0 {
		t.Error("expected nothing after the last sequence number")
	}
}

func TestRingLogger_Level(t *testing.T) {
	r := NewRingLogger(10)
	r.Debug("hidden")
	if len(r.Entries(0)) != 0 {
		t.Fatal("debug recorded at INFO level")
	}
	r.SetLevel(LevelDebug)
	r.Debug("shown")
	got := r.Entries(0)
	if len(got) != 1 || got[0].Level != LevelDebug {
		t.Errorf("unexpected entries %+v", got)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
