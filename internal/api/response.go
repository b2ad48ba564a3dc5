package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/internal/csp"
	"github.com/craigmiskell/cookiemaster/internal/policy"
)

const (
	headerSetCookie = "Set-Cookie"
	headerCSP       = "Content-Security-Policy"
	headerLocation  = "Location"
)

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// tabURL picks the URL of the page a response belongs to: the URL recorded
// for the frame at navigation time, then the tab's reported URL, then the
// response's own URL.
func (s *Api) tabURL(p common.ProcessResponseParams) string {
	if u, ok := s.tabs.FrameURL(p.TabID, p.FrameID); ok {
		return u
	}
	if p.TabURL != "" {
		return p.TabURL
	}
	return p.URL
}

// ProcessResponse filters the headers of one response. Set-Cookie headers
// are allowed, rewritten or dropped per the policy; CSP headers get the
// page hook's hash; everything else passes untouched. Any failure returns
// the original headers.
func (s *Api) ProcessResponse(ctx context.Context, p common.ProcessResponseParams) (res common.ProcessResponseResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("processResponse: %s: recovered: %v", p.URL, r)
			res = common.ProcessResponseResult{Headers: p.Headers, Failed: true}
		}
	}()

	requestHost, err := hostOf(p.URL)
	if err != nil {
		s.log.Error("processResponse: %v", err)
		return common.ProcessResponseResult{Headers: p.Headers, Failed: true}
	}
	tabURL := s.tabURL(p)
	// An unparseable page URL leaves the tab host empty, which classifies
	// every cookie as third-party.
	tabHost, err := hostOf(tabURL)
	if err != nil {
		s.log.Warning("processResponse: tab %d: %v", p.TabID, err)
	}
	s.log.Debug("processResponse: tab %d frame %d: %s on %s", p.TabID, p.FrameID, requestHost, tabHost)

	cfg := s.config.Snapshot()
	hash := s.scriptHash(cfg)
	out := make([]common.Header, 0, len(p.Headers))
	for _, h := range p.Headers {
		switch {
		case strings.EqualFold(h.Name, headerSetCookie):
			d := s.engine.Evaluate(h.Value, requestHost, tabHost, cfg)
			s.recordDecision(ctx, p, d)
			for _, err := range d.Errors {
				s.log.Warning("processResponse: %s: dropped cookie line: %v", requestHost, err)
			}
			if !d.Allowed {
				res.Blocked++
				continue
			}
			if d.Header != h.Value {
				res.Rewritten++
			}
			if d.Header == "" {
				continue
			}
			out = append(out, common.Header{Name: h.Name, Value: d.Header})
		case strings.EqualFold(h.Name, headerCSP):
			v, changed := csp.Augment(h.Value, hash)
			if changed {
				res.Rewritten++
			}
			out = append(out, common.Header{Name: h.Name, Value: v})
		default:
			out = append(out, h)
		}
	}

	// Redirects of the main frame do not trigger a new navigation, so the
	// tab's URL is moved on here for the responses that follow.
	if p.FrameID == activity.MainFrame && isRedirect(p.StatusCode) {
		s.followRedirect(p)
	}
	res.Headers = out
	return res
}

func (s *Api) followRedirect(p common.ProcessResponseParams) {
	var location string
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, headerLocation) {
			location = h.Value
			break
		}
	}
	if location == "" {
		return
	}
	base, err := url.Parse(p.URL)
	if err != nil {
		return
	}
	next, err := base.Parse(location)
	if err != nil {
		s.log.Warning("processResponse: bad redirect location from %s: %v", p.URL, err)
		return
	}
	s.log.Debug("processResponse: redirect from %s to %s", p.URL, next)
	s.tabs.SetFrameURL(p.TabID, p.FrameID, next.String())
}

// recordDecision reports each cookie of a header. Allowed cookies are
// recorded against the allow list entry that let them through; blocked
// ones against their own domain. Pure deletions are not recorded.
func (s *Api) recordDecision(ctx context.Context, p common.ProcessResponseParams, d policy.Decision) {
	if d.AllDeleted {
		return
	}
	party := activity.FirstParty
	if d.ThirdParty {
		party = activity.ThirdParty
	}
	for _, c := range d.Cookies {
		configDomain := c.Domain
		if d.Allowed && c.Matched {
			configDomain = c.Entry.Domain
		}
		s.log.Info("cookie %s for %s %s (%s party)", c.Name, c.Domain, verdict(d.Allowed), party)
		s.record(ctx, activity.Event{
			TabID:        p.TabID,
			FrameID:      p.FrameID,
			Party:        party,
			Allowed:      d.Allowed,
			Source:       activity.SourceHeader,
			CookieDomain: c.Domain,
			ConfigDomain: configDomain,
		})
	}
}

func verdict(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "blocked"
}

// Evaluate runs the header policy without recording anything.
func (s *Api) Evaluate(p common.EvaluateParams) policy.Decision {
	return s.engine.Evaluate(p.Header, p.RequestHost, p.TabHost, s.config.Snapshot())
}

// Augment patches a CSP header value with the given or current script hash.
func (s *Api) Augment(p common.AugmentParams) common.AugmentResult {
	hash := p.Hash
	if hash == "" {
		hash = s.scriptHash(s.config.Snapshot())
	}
	v, changed := csp.Augment(p.Header, hash)
	return common.AugmentResult{Header: v, Changed: changed}
}
