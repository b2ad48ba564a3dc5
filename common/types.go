package common

import (
	"time"

	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// Header is one HTTP response header as the browser reports it.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildType string `json:"build_type"`
}

// ProcessResponseParams describes one response about to be delivered to a
// tab.
type ProcessResponseParams struct {
	TabID   int    `json:"tabId"`
	FrameID int    `json:"frameId"`
	URL     string `json:"url"`
	// TabURL is the tab's current URL, used when the frame's URL is not
	// already known.
	TabURL     string   `json:"tabUrl,omitempty"`
	StatusCode int      `json:"statusCode,omitempty"`
	Headers    []Header `json:"responseHeaders"`
}

type ProcessResponseResult struct {
	Headers []Header `json:"responseHeaders"`
	// Blocked counts Set-Cookie headers removed.
	Blocked int `json:"blocked"`
	// Rewritten counts headers whose value changed.
	Rewritten int `json:"rewritten"`
	// Failed is set when processing failed and the original headers were
	// returned.
	Failed bool `json:"failed,omitempty"`
}

type EvaluateParams struct {
	Header      string `json:"header"`
	RequestHost string `json:"requestHost"`
	TabHost     string `json:"tabHost"`
}

type AugmentParams struct {
	Header string `json:"header"`
	// Hash defaults to the configured or built-in script hash.
	Hash string `json:"hash,omitempty"`
}

type AugmentResult struct {
	Header  string `json:"header"`
	Changed bool   `json:"changed"`
}

type ScriptedCookieParams struct {
	TabID   int    `json:"tabId"`
	FrameID int    `json:"frameId"`
	URL     string `json:"url"`
	Cookie  string `json:"cookie"`
}

type CookieEnabledParams struct {
	URL string `json:"url"`
}

type CookieEnabledResult struct {
	Enabled bool `json:"enabled"`
}

type SetDomainParams struct {
	Domain    string              `json:"domain"`
	AllowType allowlist.AllowType `json:"allowType"`
}

type DomainParams struct {
	Domain string `json:"domain"`
}

type RemoveDomainResult struct {
	Removed bool           `json:"removed"`
	Config  *policy.Config `json:"config"`
}

type ThirdPartyParams struct {
	Mode policy.ThirdPartyPolicy `json:"mode"`
}

// ConfigChangedParams carries settings edited in the options page.
// Unset fields are left alone.
type ConfigChangedParams struct {
	IgnoreSettingsWarning *bool                    `json:"ignoreSettingsWarning,omitempty"`
	ThirdParty            *policy.ThirdPartyPolicy `json:"thirdParty,omitempty"`
	// Script replaces the page hook script whose hash CSP headers get.
	// An empty string returns to the built-in script.
	Script *string `json:"script,omitempty"`
	Reset  bool    `json:"reset,omitempty"`
}

type TabParams struct {
	TabID int `json:"tabId"`
}

type NavigationParams struct {
	TabID   int    `json:"tabId"`
	FrameID int    `json:"frameId"`
	URL     string `json:"url"`
}

type TabActivityResult struct {
	Tab     *activity.TabActivity              `json:"tab,omitempty"`
	Domains map[string]activity.DomainActivity `json:"domains"`
	Updated time.Time                          `json:"updated"`
}

type LogsParams struct {
	// Since returns only entries with a larger sequence number.
	Since uint64 `json:"since,omitempty"`
}

type LogsResult struct {
	Entries []logger.Entry `json:"entries"`
}

type LogLevelParams struct {
	Level logger.Level `json:"level"`
}

type ActivityListParams struct {
	Since   time.Time `json:"since,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Allowed *bool     `json:"allowed,omitempty"`
	Limit   int       `json:"limit,omitempty"`
}

type ActivityListResult struct {
	Events []activity.Event `json:"events"`
}
