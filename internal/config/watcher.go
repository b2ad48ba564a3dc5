package config

import (
	"context"
	"time"
)

// DefaultPollInterval is how often the watcher checks the file.
const DefaultPollInterval = 5 * time.Second

// Watcher reloads a Provider when its file is edited outside the program,
// e.g. by `cookiemaster allow add` while the native host is running.
type Watcher struct {
	provider *Provider
	interval time.Duration
}

// NewWatcher returns a watcher polling every interval, or every
// DefaultPollInterval when interval <= 0.
func NewWatcher(p *Provider, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{provider: p, interval: interval}
}

// Watch polls until ctx is done.
func (w *Watcher) Watch(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	reloaded, err := w.provider.reloadIfChanged()
	if err != nil {
		w.provider.log.Error("config reload failed: %s: %v", w.provider.path, err)
		return
	}
	if reloaded {
		w.provider.log.Info("config reloaded from %s", w.provider.path)
	}
}
