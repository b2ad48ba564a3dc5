package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/csp"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// Provider owns the current configuration snapshot. Readers take a snapshot
// with Snapshot and never block; writers build a new snapshot, save it and
// swap it in.
type Provider struct {
	fs   afero.Fs
	path string
	log  logger.Logger

	mu      sync.Mutex
	current atomic.Pointer[policy.Config]
	modTime time.Time

	listenersMu sync.RWMutex
	listeners   []func(*policy.Config)
}

// NewProvider returns a provider for the file at path on fsys, holding the
// default configuration until Load is called.
func NewProvider(fsys afero.Fs, path string, l logger.Logger) *Provider {
	if l == nil {
		l = logger.NewNopLogger()
	}
	p := &Provider{fs: fsys, path: path, log: l}
	p.current.Store(policy.DefaultConfig())
	return p
}

// Path returns the configuration file path.
func (p *Provider) Path() string { return p.path }

// Snapshot returns the current configuration. Callers must not modify it.
func (p *Provider) Snapshot() *policy.Config { return p.current.Load() }

// OnChange registers fn to be called with every new snapshot.
func (p *Provider) OnChange(fn func(*policy.Config)) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Provider) publish(cfg *policy.Config) {
	p.current.Store(cfg)
	p.listenersMu.RLock()
	defer p.listenersMu.RUnlock()
	for _, fn := range p.listeners {
		fn(cfg)
	}
}

// Load reads the file and makes it the current snapshot. A missing file
// leaves the defaults in place. A file in an older layout is loaded as is;
// it is rewritten in the current layout on the next save.
func (p *Provider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked()
}

func (p *Provider) loadLocked() error {
	info, err := p.fs.Stat(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.log.Debug("config: %s not found, using defaults", p.path)
		p.modTime = time.Time{}
		p.publish(policy.DefaultConfig())
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	data, err := afero.ReadFile(p.fs, p.path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, upgraded, err := Decode(data)
	if err != nil {
		return err
	}
	if upgraded {
		p.log.Info("config: converting allow list from the old layout")
	}
	p.modTime = info.ModTime()
	p.publish(cfg)
	p.log.Debug("config: loaded %d allow list entries, third party %s", cfg.AllowList.Len(), cfg.ThirdParty)
	return nil
}

// reloadIfChanged reloads when the file's modification time moved on since
// the last load or save. It reports whether a reload happened.
func (p *Provider) reloadIfChanged() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	info, err := p.fs.Stat(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if !info.ModTime().After(p.modTime) {
		return false, nil
	}
	return true, p.loadLocked()
}

// save writes cfg atomically (temp file then rename) and publishes it.
func (p *Provider) save(cfg *policy.Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p.path)
	if err := p.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := afero.TempFile(p.fs, dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		p.fs.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		p.fs.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := p.fs.Chmod(tmpName, 0o600); err != nil && !errors.Is(err, os.ErrPermission) {
		p.log.Warning("config: chmod %s: %v", tmpName, err)
	}
	if err := p.fs.Rename(tmpName, p.path); err != nil {
		p.fs.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	if info, err := p.fs.Stat(p.path); err == nil {
		p.modTime = info.ModTime()
	}
	p.publish(cfg)
	return nil
}

// update applies fn to a copy of the current snapshot and saves the result.
func (p *Provider) update(fn func(cfg *policy.Config) error) (*policy.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := *p.current.Load()
	if err := fn(&next); err != nil {
		return nil, err
	}
	if err := p.save(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Save persists the current snapshot, e.g. to complete a layout upgrade.
func (p *Provider) Save() error {
	_, err := p.update(func(*policy.Config) error { return nil })
	return err
}

// SetDomainAllow allows domain with the given allow type, replacing any
// existing entry for exactly that domain.
func (p *Provider) SetDomainAllow(domain string, t allowlist.AllowType) (*policy.Config, error) {
	return p.update(func(cfg *policy.Config) error {
		l, err := cfg.AllowList.With(domain, t)
		if err != nil {
			return err
		}
		cfg.AllowList = l
		p.log.Info("config: allow %s (%s)", allowlist.NormalizeDomain(domain), t)
		return nil
	})
}

// RemoveDomain removes the entry for exactly domain. removed is false when
// there was no such entry, in which case nothing is written.
func (p *Provider) RemoveDomain(domain string) (cfg *policy.Config, removed bool, err error) {
	p.mu.Lock()
	cur := p.current.Load()
	_, ok := cur.AllowList.Without(domain)
	p.mu.Unlock()
	if !ok {
		return cur, false, nil
	}
	cfg, err = p.update(func(c *policy.Config) error {
		c.AllowList, _ = c.AllowList.Without(domain)
		p.log.Info("config: removed %s", allowlist.NormalizeDomain(domain))
		return nil
	})
	return cfg, err == nil, err
}

// SetThirdParty changes the third-party policy.
func (p *Provider) SetThirdParty(tp policy.ThirdPartyPolicy) (*policy.Config, error) {
	return p.update(func(cfg *policy.Config) error {
		if _, err := tp.MarshalText(); err != nil {
			return err
		}
		cfg.ThirdParty = tp
		p.log.Info("config: third party policy %s", tp)
		return nil
	})
}

// SetIgnoreSettingsWarning records whether the browser settings warning is
// dismissed.
func (p *Provider) SetIgnoreSettingsWarning(v bool) (*policy.Config, error) {
	return p.update(func(cfg *policy.Config) error {
		cfg.IgnoreSettingsWarning = v
		return nil
	})
}

// SetScriptHash records the hash of the page hook script. An empty hash
// returns to the built-in script.
func (p *Provider) SetScriptHash(hash string) (*policy.Config, error) {
	if hash != "" {
		if err := csp.ValidateHash(hash); err != nil {
			return nil, err
		}
	}
	return p.update(func(cfg *policy.Config) error {
		cfg.ScriptHash = hash
		return nil
	})
}

// Reset restores the factory settings and saves them.
func (p *Provider) Reset() (*policy.Config, error) {
	return p.update(func(cfg *policy.Config) error {
		*cfg = *policy.DefaultConfig()
		p.log.Info("config: reset to factory settings")
		return nil
	})
}
