package api

import (
	"context"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/internal/policy"
)

// ScriptedCookie decides a cookie a page assigned to document.cookie.
func (s *Api) ScriptedCookie(ctx context.Context, p common.ScriptedCookieParams) (policy.ScriptedResult, error) {
	host, err := hostOf(p.URL)
	if err != nil {
		return policy.ScriptedResult{}, err
	}
	r := s.engine.EvaluateScripted(p.Cookie, host, s.config.Snapshot())
	if r.Deleted {
		return r, nil
	}
	s.log.Info("scripted cookie for %s %s", host, verdict(r.Allowed))
	s.record(ctx, activity.Event{
		TabID:        p.TabID,
		FrameID:      p.FrameID,
		Party:        activity.FirstParty,
		Allowed:      r.Allowed,
		Source:       activity.SourceScript,
		CookieDomain: host,
		ConfigDomain: r.RecordDomain(),
	})
	return r, nil
}

// CookieChanged decides a cookie the browser reports as newly stored. The
// caller carries out the returned removal or session rewrite.
func (s *Api) CookieChanged(ctx context.Context, ch policy.StoreChange) policy.StoreDecision {
	d := policy.EvaluateStoreCookie(ch, s.config.Snapshot())
	if d.Action == policy.Ignore {
		return d
	}
	s.log.Info("cookie store change %s for %s: %s", ch.Cookie.Name, ch.Cookie.Domain, d.Action)
	// The change channel carries no tab.
	s.record(ctx, activity.Event{
		TabID:        activity.NoTab,
		Party:        activity.FirstParty,
		Allowed:      d.Allowed,
		Source:       activity.SourceStore,
		CookieDomain: ch.Cookie.Domain,
		ConfigDomain: d.RecordDomain,
	})
	return d
}

// CookieEnabled answers navigator.cookieEnabled for a page.
func (s *Api) CookieEnabled(p common.CookieEnabledParams) (common.CookieEnabledResult, error) {
	host, err := hostOf(p.URL)
	if err != nil {
		return common.CookieEnabledResult{}, err
	}
	return common.CookieEnabledResult{Enabled: policy.CookieEnabled(host, s.config.Snapshot())}, nil
}
