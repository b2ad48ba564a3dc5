// Package activity records which cookie domains were allowed or blocked,
// per tab and frame for the popup and as a queryable history.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Party says whether a cookie came from the page's own site.
type Party string

const (
	FirstParty Party = "first"
	ThirdParty Party = "third"
)

// Source says which channel a cookie arrived through.
type Source string

const (
	SourceHeader Source = "header"
	SourceScript Source = "script"
	SourceStore  Source = "store"
)

// NoTab marks an event that could not be tied to a tab, such as a cookie
// store change.
const NoTab = -1

// Event is one allow or block decision for one cookie domain.
type Event struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	TabID   int       `json:"tabId"`
	FrameID int       `json:"frameId"`
	Party   Party     `json:"party"`
	Allowed bool      `json:"allowed"`
	Source  Source    `json:"source"`
	// CookieDomain is the domain the cookie was set for.
	CookieDomain string `json:"cookieDomain"`
	// ConfigDomain is the allow list entry that allowed the cookie, or the
	// cookie domain itself when it was blocked or allowed by policy.
	ConfigDomain string `json:"configDomain"`
}

// Recorder is the sink decisions are reported to. It is write only; the
// policy engine never reads it back.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Stamp fills in an ID and time when the event has none.
func Stamp(e Event, now time.Time) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = now
	}
	if e.ConfigDomain == "" {
		e.ConfigDomain = e.CookieDomain
	}
	return e
}

// Multi fans an event out to several recorders, returning the first error.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Event) error {
	var firstErr error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
