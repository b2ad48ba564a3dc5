package cookies

import (
	"testing"
	"time"
)

func TestIsBeingDeleted(t *testing.T) {
	ref := time.Date(2020, time.June, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"no temporal attributes", "a=1", false},
		{"expires in the past", "a=1; Expires=Thu, 01 Jan 1970 00:00:00 GMT", true},
		{"expires exactly now", "a=1; Expires=Mon, 01 Jun 2020 12:00:00 GMT", true},
		{"expires in the future", "a=1; Expires=Tue, 01 Jun 2021 12:00:00 GMT", false},
		{"malformed expires", "a=1; Expires=not a date", false},
		{"max-age zero", "a=1; Max-Age=0", true},
		{"max-age negative", "a=1; Max-Age=-1", true},
		{"max-age positive", "a=1; Max-Age=3600", false},
		{"max-age malformed", "a=1; Max-Age=soon", false},
		{"max-age flag", "a=1; Max-Age", false},
		{"future expires but zero max-age", "a=1; Expires=Tue, 01 Jun 2021 12:00:00 GMT; Max-Age=0", true},
		{"malformed expires but zero max-age", "a=1; Expires=garbage; Max-Age=0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBeingDeleted(Parse(tt.line), ref); got != tt.want {
				t.Errorf("IsBeingDeleted(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestAllBeingDeleted(t *testing.T) {
	ref := time.Date(2020, time.June, 1, 12, 0, 0, 0, time.UTC)
	all := ParseHeader("a=1; Max-Age=0\nb=2; Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	if !AllBeingDeleted(all, ref) {
		t.Error("expected header of deletions to be all deleted")
	}
	mixed := ParseHeader("a=1; Max-Age=0\nb=2")
	if AllBeingDeleted(mixed, ref) {
		t.Error("expected mixed header not to be all deleted")
	}
}
