package api

import (
	"context"
	"fmt"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/internal/csp"
	"github.com/craigmiskell/cookiemaster/internal/policy"
)

func (s *Api) GetConfig() *policy.Config {
	return s.config.Snapshot()
}

func (s *Api) SetDomainAllow(p common.SetDomainParams) (*policy.Config, error) {
	cfg, err := s.config.SetDomainAllow(p.Domain, p.AllowType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return cfg, nil
}

func (s *Api) RemoveDomain(p common.DomainParams) (common.RemoveDomainResult, error) {
	cfg, removed, err := s.config.RemoveDomain(p.Domain)
	if err != nil {
		return common.RemoveDomainResult{}, err
	}
	return common.RemoveDomainResult{Removed: removed, Config: cfg}, nil
}

func (s *Api) SetThirdParty(p common.ThirdPartyParams) (*policy.Config, error) {
	cfg, err := s.config.SetThirdParty(p.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return cfg, nil
}

// ConfigChanged applies settings edited in the options page, or reloads
// the file when no setting is given.
func (s *Api) ConfigChanged(p common.ConfigChangedParams) (*policy.Config, error) {
	if p.Reset {
		return s.config.Reset()
	}
	if p.ThirdParty != nil {
		if _, err := s.SetThirdParty(common.ThirdPartyParams{Mode: *p.ThirdParty}); err != nil {
			return nil, err
		}
	}
	if p.IgnoreSettingsWarning != nil {
		if _, err := s.config.SetIgnoreSettingsWarning(*p.IgnoreSettingsWarning); err != nil {
			return nil, err
		}
	}
	if p.Script != nil {
		if _, err := s.SetHookScript(*p.Script); err != nil {
			return nil, err
		}
	}
	if p.ThirdParty == nil && p.IgnoreSettingsWarning == nil && p.Script == nil {
		if err := s.config.Load(); err != nil {
			return nil, err
		}
	}
	return s.config.Snapshot(), nil
}

// SetHookScript checks that script parses and stores its hash for CSP
// patching. An empty script clears the stored hash.
func (s *Api) SetHookScript(script string) (*policy.Config, error) {
	if script == "" {
		return s.config.SetScriptHash("")
	}
	if err := csp.ValidateScript(script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	hash := csp.ScriptHash(script)
	s.log.Info("hook script hash set to %s", hash)
	return s.config.SetScriptHash(hash)
}

// ActivityList queries the activity history.
func (s *Api) ActivityList(ctx context.Context, p common.ActivityListParams) (common.ActivityListResult, error) {
	if s.history == nil {
		return common.ActivityListResult{Events: []activity.Event{}}, nil
	}
	events, err := s.history.List(ctx, activity.Filter{
		Since:   p.Since,
		Domain:  p.Domain,
		Allowed: p.Allowed,
		Limit:   p.Limit,
	})
	if err != nil {
		return common.ActivityListResult{}, err
	}
	if events == nil {
		events = []activity.Event{}
	}
	return common.ActivityListResult{Events: events}, nil
}
