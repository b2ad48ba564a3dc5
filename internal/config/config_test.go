package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

const testPath = "/home/u/.config/cookiemaster/config.yaml"

func TestDecode_Defaults(t *testing.T) {
	cfg, upgraded, err := Decode(nil)
	if err != nil || upgraded {
		t.Fatalf("Decode(nil) = %v, %v", upgraded, err)
	}
	if cfg.ThirdParty != policy.AllowNone || cfg.IgnoreSettingsWarning || cfg.AllowList.Len() != 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestDecode_CurrentLayout(t *testing.T) {
	data := `
thirdParty: AllowIfOtherwiseAllowed
ignoreSettingsWarning: true
scriptHash: wOERs+Zxi7r5tZmZma/4XSc3fuE/V8YNIBjJaE/ezWk=
allowList:
  - domain: example.org
    allowType: Session
  - domain: .other.com
`
	cfg, upgraded, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if upgraded {
		t.Error("current layout reported as upgraded")
	}
	if cfg.ThirdParty != policy.AllowIfOtherwiseAllowed || !cfg.IgnoreSettingsWarning || cfg.ScriptHash != "wOERs+Zxi7r5tZmZma/4XSc3fuE/V8YNIBjJaE/ezWk=" {
		t.Errorf("unexpected config %+v", cfg)
	}
	entries := cfg.AllowList.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0] != (allowlist.Entry{Domain: ".example.org", AllowType: allowlist.Session}) {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1] != (allowlist.Entry{Domain: ".other.com", AllowType: allowlist.Persistent}) {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestDecode_LegacyLayouts(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"string list", "allowList:\n  - .example.org\n  - .other.com\n"},
		{"domain map", "allowList:\n  .example.org:\n    allowType: Persistent\n  .other.com: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, upgraded, err := Decode([]byte(tt.data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !upgraded {
				t.Error("expected upgrade")
			}
			for _, d := range []string{".example.org", ".other.com"} {
				e, ok := cfg.AllowList.FindAllowingEntry(d)
				if !ok || e.AllowType != allowlist.Persistent {
					t.Errorf("%s: got %+v, %v", d, e, ok)
				}
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	bad := []string{
		"thirdParty: Sometimes\n",
		"allowList:\n  - domain: x.com\n    allowType: Forever\n",
		"allowList: x.com\n",
		"thirdParty: [\n",
		"scriptHash: abc=\n",
		"scriptHash: \"x'; script-src * 'unsafe-eval\"\n",
	}
	for _, data := range bad {
		if _, _, err := Decode([]byte(data)); err == nil {
			t.Errorf("Decode(%q) succeeded", data)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg := &policy.Config{
		ThirdParty: policy.AllowAll,
		AllowList:  allowlist.New(allowlist.Entry{Domain: ".a.com", AllowType: allowlist.Session}),
	}
	data, err := Encode(cfg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "thirdParty: AllowAll") || !strings.Contains(string(data), "allowType: Session") {
		t.Errorf("unexpected yaml:\n%s", data)
	}
	back, upgraded, err := Decode(data)
	if err != nil || upgraded {
		t.Fatalf("Decode: %v %v", upgraded, err)
	}
	if back.ThirdParty != policy.AllowAll || !back.AllowList.IsExplicitlyListed("a.com") {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestProvider_SetScriptHash(t *testing.T) {
	p := NewProvider(afero.NewMemMapFs(), testPath, nil)
	if err := p.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := p.SetScriptHash("x'; script-src *"); err == nil {
		t.Error("expected error for a malformed hash")
	}
	if p.Snapshot().ScriptHash != "" {
		t.Error("malformed hash was stored")
	}
	if _, err := p.SetScriptHash("wOERs+Zxi7r5tZmZma/4XSc3fuE/V8YNIBjJaE/ezWk="); err != nil {
		t.Fatalf("SetScriptHash: %v", err)
	}
	if _, err := p.SetScriptHash(""); err != nil || p.Snapshot().ScriptHash != "" {
		t.Errorf("clearing hash: %v, %q", err, p.Snapshot().ScriptHash)
	}
}

func TestProvider_MissingFileUsesDefaults(t *testing.T) {
	p := NewProvider(afero.NewMemMapFs(), testPath, nil)
	if err := p.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Snapshot().ThirdParty != policy.AllowNone {
		t.Errorf("unexpected snapshot %+v", p.Snapshot())
	}
}

func TestProvider_Mutations(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := logger.NewMockLogger()
	p := NewProvider(fs, testPath, log)
	if err := p.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var seen []*policy.Config
	p.OnChange(func(c *policy.Config) { seen = append(seen, c) })

	before := p.Snapshot()
	if _, err := p.SetDomainAllow("example.org.", allowlist.Session); err != nil {
		t.Fatalf("SetDomainAllow: %v", err)
	}
	if before.AllowList.Len() != 0 {
		t.Error("earlier snapshot was modified")
	}
	if _, err := p.SetThirdParty(policy.AllowIfOtherwiseAllowed); err != nil {
		t.Fatalf("SetThirdParty: %v", err)
	}
	if _, err := p.SetThirdParty(policy.ThirdPartyPolicy(9)); err == nil {
		t.Error("expected error for unknown policy")
	}

	// A fresh provider sees what was saved.
	q := NewProvider(fs, testPath, nil)
	if err := q.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := q.Snapshot()
	if cfg.ThirdParty != policy.AllowIfOtherwiseAllowed || !cfg.AllowList.IsExplicitlyListed(".example.org") {
		t.Errorf("saved config not reloaded: %+v", cfg)
	}

	_, removed, err := p.RemoveDomain("example.org")
	if err != nil || !removed {
		t.Fatalf("RemoveDomain = %v, %v", removed, err)
	}
	if _, removed, _ := p.RemoveDomain("example.org"); removed {
		t.Error("second removal reported success")
	}

	if _, err := p.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if p.Snapshot().ThirdParty != policy.AllowNone {
		t.Error("Reset did not restore defaults")
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 change notifications, got %d", len(seen))
	}

	matches, _ := afero.Glob(fs, "/home/u/.config/cookiemaster/.config-*")
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewProvider(fs, testPath, nil)
	if _, err := p.SetThirdParty(policy.AllowNone); err != nil {
		t.Fatalf("SetThirdParty: %v", err)
	}

	if err := afero.WriteFile(fs, testPath, []byte("thirdParty: AllowAll\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := fs.Chtimes(testPath, future, future); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher(p, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Watch(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.Snapshot().ThirdParty != policy.AllowAll {
		select {
		case <-deadline:
			cancel()
			t.Fatal("watcher did not reload the config")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestWatcher_BadFileKeepsSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := logger.NewMockLogger()
	p := NewProvider(fs, testPath, log)
	if _, err := p.SetThirdParty(policy.AllowAll); err != nil {
		t.Fatal(err)
	}
	afero.WriteFile(fs, testPath, []byte("thirdParty: [\n"), 0o600)
	future := time.Now().Add(time.Hour)
	fs.Chtimes(testPath, future, future)

	NewWatcher(p, 0).poll()

	if p.Snapshot().ThirdParty != policy.AllowAll {
		t.Error("a broken file must not replace the snapshot")
	}
	if _, _, _, errs := log.Snapshot(); len(errs) != 1 {
		t.Errorf("expected one error log, got %v", errs)
	}
}
