package policy

import (
	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/cookies"
)

// ScriptedResult is the outcome for a cookie assigned through
// document.cookie.
type ScriptedResult struct {
	// Deleted cookies are always let through and never recorded.
	Deleted bool            `json:"deleted"`
	Allowed bool            `json:"allowed"`
	Domain  string          `json:"domain"`
	Matched bool            `json:"matched"`
	Entry   allowlist.Entry `json:"entry"`
}

// RecordDomain is the domain activity is recorded against: the allowing
// entry when there is one, the document host otherwise.
func (r ScriptedResult) RecordDomain() string {
	if r.Matched {
		return r.Entry.Domain
	}
	return r.Domain
}

// EvaluateScripted decides a script-set cookie line for a document served
// from documentHost. Scripts can only set cookies for their own site, so no
// third-party step applies.
func (e *Engine) EvaluateScripted(line, documentHost string, cfg *Config) ScriptedResult {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cookies.IsBeingDeleted(cookies.Parse(line), e.now()) {
		return ScriptedResult{Deleted: true, Allowed: true, Domain: documentHost}
	}
	r := ScriptedResult{Domain: documentHost}
	r.Entry, r.Matched = cfg.AllowList.FindAllowingEntry(documentHost)
	r.Allowed = r.Matched
	return r
}

// CookieEnabled is the navigator.cookieEnabled answer for a page on host.
func CookieEnabled(host string, cfg *Config) bool {
	if cfg == nil {
		return false
	}
	_, ok := cfg.AllowList.FindAllowingEntry(host)
	return ok
}
