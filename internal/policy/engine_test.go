package policy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/thirdparty"
)

var fixedNow = time.Date(2020, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return fixedNow }))
}

func cfgWith(tp ThirdPartyPolicy, entries ...allowlist.Entry) *Config {
	return &Config{ThirdParty: tp, AllowList: allowlist.New(entries...)}
}

func TestEvaluate_FirstPartyAllowed(t *testing.T) {
	e := newTestEngine()
	cfg := cfgWith(AllowNone, allowlist.Entry{Domain: ".example.org", AllowType: allowlist.Persistent})
	d := e.Evaluate("a=1; Domain=.example.org", "example.org", "example.org", cfg)
	if !d.Allowed {
		t.Fatalf("expected allowed, got %+v", d)
	}
	if d.ThirdParty {
		t.Error("expected first party")
	}
	if d.Header != "a=1; Domain=.example.org" {
		t.Errorf("header = %q", d.Header)
	}
	if len(d.Cookies) != 1 || !d.Cookies[0].Matched || d.Cookies[0].Entry.Domain != ".example.org" {
		t.Errorf("unexpected cookie results %+v", d.Cookies)
	}
}

func TestEvaluate_ForeignDomainAttributeBlocked(t *testing.T) {
	e := newTestEngine()
	cfg := cfgWith(AllowNone, allowlist.Entry{Domain: ".example.org"})
	d := e.Evaluate("a=1; Domain=.evil.com", "example.org", "example.org", cfg)
	if d.Allowed {
		t.Fatalf("expected blocked, got %+v", d)
	}
}

func TestEvaluate_MultiLineIsAtomic(t *testing.T) {
	e := newTestEngine()
	cfg := cfgWith(AllowIfOtherwiseAllowed, allowlist.Entry{Domain: ".example.org"})
	d := e.Evaluate("a=1; Domain=.example.org\nb=2; Domain=.other.org", "example.org", "example.org", cfg)
	if d.Allowed {
		t.Fatal("a header with one unmatched cookie must be blocked")
	}
	if !d.Cookies[0].Matched || d.Cookies[1].Matched {
		t.Errorf("unexpected per-cookie matches %+v", d.Cookies)
	}
}

func TestEvaluate_AllDeletionsPassThrough(t *testing.T) {
	e := newTestEngine()
	header := "a=1; Max-Age=0; Domain=.nowhere.com\nb=2; Expires=Thu, 01 Jan 1970 00:00:00 GMT"
	d := e.Evaluate(header, "tracker.com", "example.org", cfgWith(AllowNone))
	if !d.Allowed || !d.AllDeleted {
		t.Fatalf("expected deletion pass-through, got %+v", d)
	}
	if d.Header != header || d.Rewritten() {
		t.Errorf("deletion header must be forwarded unchanged, got %q", d.Header)
	}
}

func TestEvaluate_ThirdPartyPolicies(t *testing.T) {
	header := "t=1; Domain=.tracker.com; Expires=Wed, 21 Oct 2099 07:28:00 GMT"
	allowed := allowlist.Entry{Domain: ".tracker.com", AllowType: allowlist.Persistent}

	tests := []struct {
		name      string
		cfg       *Config
		allowed   bool
		rewritten bool
	}{
		{"allow all", cfgWith(AllowAll), true, false},
		{"allow none even if listed", cfgWith(AllowNone, allowed), false, false},
		{"otherwise allowed and listed", cfgWith(AllowIfOtherwiseAllowed, allowed), true, true},
		{"otherwise allowed but unlisted", cfgWith(AllowIfOtherwiseAllowed), false, false},
	}
	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Evaluate(header, "ads.tracker.com", "example.org", tt.cfg)
			if !d.ThirdParty {
				t.Fatal("expected third party")
			}
			if d.Allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if d.Rewritten() != tt.rewritten {
				t.Errorf("rewritten = %v, want %v", d.Rewritten(), tt.rewritten)
			}
			if tt.cfg.ThirdParty == AllowAll && d.Header != header {
				t.Errorf("allow all must forward the header unchanged, got %q", d.Header)
			}
		})
	}
}

func TestEvaluate_SessionStripPerCookie(t *testing.T) {
	e := newTestEngine()
	cfg := cfgWith(AllowNone,
		allowlist.Entry{Domain: ".example.org", AllowType: allowlist.Persistent},
		allowlist.Entry{Domain: ".s.example.org", AllowType: allowlist.Session},
	)
	header := "p=1; Domain=.example.org; Max-Age=3600\ns=2; Domain=.s.example.org; Max-Age=3600; Expires=Wed, 21 Oct 2099 07:28:00 GMT"
	d := e.Evaluate(header, "www.example.org", "www.example.org", cfg)
	if !d.Allowed {
		t.Fatalf("expected allowed, got %+v", d)
	}
	want := []string{
		"p=1; Max-Age=3600; Domain=.example.org",
		"s=2; Domain=.s.example.org",
	}
	if len(d.Lines) != 2 || d.Lines[0] != want[0] || d.Lines[1] != want[1] {
		t.Errorf("lines = %q, want %q", d.Lines, want)
	}
	if d.Header != strings.Join(want, "\n") {
		t.Errorf("header = %q", d.Header)
	}
	if d.Cookies[0].Session || !d.Cookies[1].Session {
		t.Errorf("session flags wrong: %+v", d.Cookies)
	}
}

func TestEvaluate_UnserializableLineDropped(t *testing.T) {
	e := newTestEngine()
	cfg := cfgWith(AllowNone, allowlist.Entry{Domain: ".example.org"})
	d := e.Evaluate("good=1\nbad=2; SameSite=sometimes", "example.org", "example.org", cfg)
	if !d.Allowed {
		t.Fatalf("expected allowed, got %+v", d)
	}
	if d.Dropped != 1 || len(d.Lines) != 1 || d.Header != "good=1" {
		t.Errorf("expected bad line dropped, got %+v", d)
	}
	if len(d.Errors) != 1 {
		t.Errorf("expected one error, got %v", d.Errors)
	}
}

func TestEvaluate_DomainFallsBackToRequestHost(t *testing.T) {
	e := newTestEngine()
	cfg := cfgWith(AllowNone, allowlist.Entry{Domain: ".example.org"})
	d := e.Evaluate("a=1", "www.example.org", "example.org", cfg)
	if !d.Allowed || d.Cookies[0].Domain != "www.example.org" {
		t.Fatalf("expected request host fallback, got %+v", d)
	}
}

func TestEvaluate_ResolverFailureIsThirdParty(t *testing.T) {
	failing := thirdparty.NewClassifier(thirdparty.ResolverFunc(func(string) (string, error) {
		return "", errors.New("no suffix list")
	}))
	e := NewEngine(WithClock(func() time.Time { return fixedNow }), WithClassifier(failing))
	cfg := cfgWith(AllowNone, allowlist.Entry{Domain: ".example.org"})
	d := e.Evaluate("a=1", "www.example.org", "example.org", cfg)
	if !d.ThirdParty || d.Allowed {
		t.Fatalf("expected fail-safe third-party block, got %+v", d)
	}
}

func TestEvaluate_NilConfigUsesDefaults(t *testing.T) {
	d := newTestEngine().Evaluate("a=1", "example.org", "example.org", nil)
	if d.Allowed {
		t.Fatal("default config must not allow anything")
	}
}

func TestThirdPartyPolicy_Text(t *testing.T) {
	var c Config
	if err := json.Unmarshal([]byte(`{"thirdParty":"allowifotherwiseallowed","allowList":[{"domain":"x.com","allowType":"Session"}]}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.ThirdParty != AllowIfOtherwiseAllowed {
		t.Errorf("third party = %v", c.ThirdParty)
	}
	if !c.AllowList.IsExplicitlyListed(".x.com") {
		t.Errorf("allow list = %+v", c.AllowList.Entries())
	}
	if _, err := ParseThirdPartyPolicy("sometimes"); !errors.Is(err, ErrUnknownThirdPartyPolicy) {
		t.Errorf("expected ErrUnknownThirdPartyPolicy, got %v", err)
	}
}
