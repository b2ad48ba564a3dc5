package policy

import (
	"strings"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
)

// StoreCookie is a cookie as reported by the browser's cookie store.
type StoreCookie struct {
	Name             string   `json:"name"`
	Value            string   `json:"value"`
	Domain           string   `json:"domain"`
	Path             string   `json:"path"`
	Secure           bool     `json:"secure"`
	HTTPOnly         bool     `json:"httpOnly"`
	SameSite         string   `json:"sameSite,omitempty"`
	HostOnly         bool     `json:"hostOnly"`
	ExpirationDate   *float64 `json:"expirationDate,omitempty"`
	StoreID          string   `json:"storeId,omitempty"`
	FirstPartyDomain string   `json:"firstPartyDomain,omitempty"`
}

// StoreChange is one notification from the cookie change channel.
type StoreChange struct {
	Removed bool        `json:"removed"`
	Cookie  StoreCookie `json:"cookie"`
	Cause   string      `json:"cause,omitempty"`
}

// StoreAction is what must happen to a cookie already in the store.
type StoreAction int

const (
	// Ignore means the change needs no action, e.g. a removal.
	Ignore StoreAction = iota
	// Keep leaves the cookie alone.
	Keep
	// Remove deletes the cookie.
	Remove
	// MakeSession rewrites the cookie without its expiration date.
	MakeSession
)

func (a StoreAction) String() string {
	switch a {
	case Keep:
		return "keep"
	case Remove:
		return "remove"
	case MakeSession:
		return "make-session"
	}
	return "ignore"
}

func (a StoreAction) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// RemoveRequest holds the fields cookies.remove needs.
type RemoveRequest struct {
	URL              string `json:"url"`
	Name             string `json:"name"`
	StoreID          string `json:"storeId,omitempty"`
	FirstPartyDomain string `json:"firstPartyDomain,omitempty"`
}

// SetRequest holds the fields cookies.set needs to store a session copy.
type SetRequest struct {
	URL              string `json:"url"`
	Name             string `json:"name"`
	Value            string `json:"value"`
	Domain           string `json:"domain,omitempty"`
	Path             string `json:"path"`
	Secure           bool   `json:"secure"`
	HTTPOnly         bool   `json:"httpOnly"`
	SameSite         string `json:"sameSite,omitempty"`
	StoreID          string `json:"storeId,omitempty"`
	FirstPartyDomain string `json:"firstPartyDomain,omitempty"`
}

// StoreDecision is the outcome for one cookie store change.
type StoreDecision struct {
	Action       StoreAction     `json:"action"`
	Allowed      bool            `json:"allowed"`
	Matched      bool            `json:"matched"`
	Entry        allowlist.Entry `json:"entry"`
	RecordDomain string          `json:"recordDomain,omitempty"`
	Remove       *RemoveRequest  `json:"remove,omitempty"`
	Set          *SetRequest     `json:"set,omitempty"`
}

// CookieURL rebuilds the URL a store cookie belongs to, as the cookie
// store API expects it.
func CookieURL(c StoreCookie) string {
	scheme := "http://"
	if c.Secure {
		scheme = "https://"
	}
	return scheme + strings.TrimPrefix(c.Domain, ".") + c.Path
}

// EvaluateStoreCookie decides a cookie that appeared in the browser's
// cookie store without passing a header check, typically one set by script
// before the page hook was installed.
func EvaluateStoreCookie(ch StoreChange, cfg *Config) StoreDecision {
	if ch.Removed {
		return StoreDecision{Action: Ignore}
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := ch.Cookie
	d := StoreDecision{RecordDomain: c.Domain}
	d.Entry, d.Matched = cfg.AllowList.FindAllowingEntry(c.Domain)
	if !d.Matched {
		d.Action = Remove
		d.Remove = &RemoveRequest{
			URL:              CookieURL(c),
			Name:             c.Name,
			StoreID:          c.StoreID,
			FirstPartyDomain: c.FirstPartyDomain,
		}
		return d
	}

	d.Allowed = true
	d.RecordDomain = d.Entry.Domain
	d.Action = Keep
	if d.Entry.AllowType == allowlist.Session && c.ExpirationDate != nil {
		d.Action = MakeSession
		d.Set = &SetRequest{
			URL:              CookieURL(c),
			Name:             c.Name,
			Value:            c.Value,
			Path:             c.Path,
			Secure:           c.Secure,
			HTTPOnly:         c.HTTPOnly,
			SameSite:         c.SameSite,
			StoreID:          c.StoreID,
			FirstPartyDomain: c.FirstPartyDomain,
		}
		if !c.HostOnly {
			d.Set.Domain = c.Domain
		}
	}
	return d
}
