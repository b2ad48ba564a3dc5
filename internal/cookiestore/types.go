// Package cookiestore reads cookies out of a browser's on-disk cookie store
// so they can be audited against the allow list. It understands Firefox
// (moz_cookies SQLite), Chromium-family (cookies SQLite, unencrypted values
// only) and Netscape text files.
//
// Cookie values are never logged. Only names and domains may appear in logs.
package cookiestore

import (
	"time"

	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// Format identifies the layout of a cookie store file.
type Format int

const (
	FormatUnknown Format = iota
	FormatFirefox
	// FormatChrome covers Chrome, Chromium, Edge and Brave.
	FormatChrome
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	default:
		return "unknown"
	}
}

// Record is one cookie as stored by the browser.
type Record struct {
	Name  string
	Value string
	// Domain has a leading dot for domain cookies and none for host-only ones.
	Domain   string
	Path     string
	Expires  time.Time // zero for session cookies
	Secure   bool
	HTTPOnly bool
}

// HostOnly reports whether the cookie is bound to exactly one host.
func (r Record) HostOnly() bool {
	return r.Domain != "" && r.Domain[0] != '.'
}

// Session reports whether the cookie has no expiry.
func (r Record) Session() bool { return r.Expires.IsZero() }

// StoreCookie converts the record to the shape the browser's change channel
// reports, so it can be run through policy.EvaluateStoreCookie.
func (r Record) StoreCookie() policy.StoreCookie {
	sc := policy.StoreCookie{
		Name:     r.Name,
		Value:    r.Value,
		Domain:   r.Domain,
		Path:     r.Path,
		Secure:   r.Secure,
		HTTPOnly: r.HTTPOnly,
		HostOnly: r.HostOnly(),
	}
	if !r.Session() {
		exp := float64(r.Expires.Unix())
		sc.ExpirationDate = &exp
	}
	return sc
}

// Source describes where records were read from.
type Source struct {
	Path    string
	Format  Format
	Browser string
}

// Options narrow what a reader returns.
type Options struct {
	// Domain keeps only cookies for this host and its subdomains. Empty
	// keeps everything.
	Domain string
	// Now is the reference time for dropping expired cookies. Zero means
	// time.Now().
	Now time.Time
	Log logger.Logger
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) log() logger.Logger {
	if o.Log == nil {
		return logger.NewNopLogger()
	}
	return o.Log
}
