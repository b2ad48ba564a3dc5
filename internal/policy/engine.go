// Package policy decides whether Set-Cookie headers, script-set cookies and
// cookie store changes are allowed under the user's configuration.
package policy

import (
	"strings"
	"time"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/cookies"
	"github.com/craigmiskell/cookiemaster/internal/thirdparty"
)

// CookieResult is the outcome for one cookie line of a header.
type CookieResult struct {
	Name string `json:"name"`
	// Domain is the Domain attribute or, failing that, the request host.
	Domain  string          `json:"domain"`
	Matched bool            `json:"matched"`
	Entry   allowlist.Entry `json:"entry"`
	// Session is set when Expires and Max-Age were stripped.
	Session bool `json:"session,omitempty"`
}

// Decision is the result of evaluating one Set-Cookie header.
type Decision struct {
	Allowed bool `json:"allowed"`
	// AllDeleted is set when every cookie was a deletion and the header
	// passed through without any other check.
	AllDeleted bool           `json:"allDeleted,omitempty"`
	ThirdParty bool           `json:"thirdParty"`
	Cookies    []CookieResult `json:"cookies,omitempty"`
	// Lines holds the re-serialized cookie lines when the header was
	// rewritten. It is nil when the header passes through unchanged.
	Lines []string `json:"lines,omitempty"`
	// Header is the value to forward when Allowed.
	Header string `json:"header"`
	// Dropped counts lines that could not be re-serialized.
	Dropped int     `json:"dropped,omitempty"`
	Errors  []error `json:"-"`
}

// Rewritten reports whether the forwarded value differs from the input.
func (d Decision) Rewritten() bool { return d.Lines != nil }

// Engine evaluates headers against a Config snapshot. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	classifier *thirdparty.Classifier
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the reference clock for deletion checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithClassifier sets the third-party classifier.
func WithClassifier(c *thirdparty.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// NewEngine returns an engine using the public suffix list and the wall
// clock unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	if e.classifier == nil {
		e.classifier = thirdparty.NewClassifier(nil)
	}
	return e
}

// Now returns the engine's reference time.
func (e *Engine) Now() time.Time { return e.now() }

// Evaluate applies cfg to a Set-Cookie header received from requestHost
// while tabHost is the page being viewed. The header is allowed only when
// every cookie in it is allowed.
func (e *Engine) Evaluate(header, requestHost, tabHost string, cfg *Config) Decision {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	parsed := cookies.ParseHeader(header)
	if cookies.AllBeingDeleted(parsed, e.now()) {
		return Decision{Allowed: true, AllDeleted: true, Header: header}
	}

	d := Decision{Cookies: make([]CookieResult, len(parsed))}
	for i, c := range parsed {
		domain := c.EffectiveDomain(requestHost)
		d.Cookies[i] = CookieResult{Name: c.Name, Domain: domain}
		if !d.ThirdParty && e.classifier.IsThirdParty(tabHost, domain) {
			d.ThirdParty = true
		}
	}

	if d.ThirdParty {
		switch cfg.ThirdParty {
		case AllowAll:
			d.Allowed = true
			d.Header = header
			return d
		case AllowIfOtherwiseAllowed:
		default:
			return d
		}
	}

	d.Allowed = true
	lines := make([]string, 0, len(parsed))
	for i, c := range parsed {
		r := &d.Cookies[i]
		r.Entry, r.Matched = cfg.AllowList.FindAllowingEntry(r.Domain)
		if !r.Matched {
			d.Allowed = false
			continue
		}
		if r.Entry.AllowType == allowlist.Session {
			c = c.Without(cookies.AttrExpires, cookies.AttrMaxAge)
			r.Session = true
		}
		line, err := cookies.Serialize(c)
		if err != nil {
			d.Dropped++
			d.Errors = append(d.Errors, err)
			continue
		}
		lines = append(lines, line)
	}
	if !d.Allowed {
		return d
	}
	d.Lines = lines
	d.Header = strings.Join(lines, "\n")
	return d
}
