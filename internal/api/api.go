// Package api is the single implementation behind every transport: the
// native messaging host, the JSON-RPC server and parts of the CLI all call
// into an Api.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/internal/config"
	"github.com/craigmiskell/cookiemaster/internal/csp"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// ErrInvalidParams marks requests that could not be acted on as given.
var ErrInvalidParams = errors.New("invalid params")

// Options configures an Api. Zero values get working defaults.
type Options struct {
	Log logger.Logger
	// Ring, when set, backs the logs view.
	Ring   *logger.RingLogger
	Engine *policy.Engine
	// Tabs tracks per-tab activity; a fresh tracker is made when nil.
	Tabs *activity.Memory
	// History, when set, receives every event and answers activity queries.
	History *activity.Store

	Version   string
	Commit    string
	BuildType string
}

type Api struct {
	log      logger.Logger
	ring     *logger.RingLogger
	engine   *policy.Engine
	config   *config.Provider
	tabs     *activity.Memory
	history  *activity.Store
	hookHash string

	mu        sync.RWMutex
	recorders activity.Multi

	version   string
	commit    string
	buildType string
}

// NewApi builds an Api over a loaded configuration provider.
func NewApi(provider *config.Provider, opts Options) (*Api, error) {
	if provider == nil {
		return nil, errors.New("api: nil config provider")
	}
	hash, err := csp.HookScriptHash()
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	s := &Api{
		log:       opts.Log,
		ring:      opts.Ring,
		engine:    opts.Engine,
		config:    provider,
		tabs:      opts.Tabs,
		history:   opts.History,
		hookHash:  hash,
		version:   opts.Version,
		commit:    opts.Commit,
		buildType: opts.BuildType,
	}
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}
	if s.engine == nil {
		s.engine = policy.NewEngine()
	}
	if s.tabs == nil {
		s.tabs = activity.NewMemory()
	}
	s.recorders = activity.Multi{s.tabs}
	if s.history != nil {
		s.recorders = append(s.recorders, s.history)
	}
	return s, nil
}

// AddRecorder adds another sink for activity events, such as a notifier
// pushing them to connected clients.
func (s *Api) AddRecorder(r activity.Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorders = append(s.recorders, r)
}

func (s *Api) record(ctx context.Context, e activity.Event) {
	e = activity.Stamp(e, s.engine.Now())
	s.mu.RLock()
	recs := s.recorders
	s.mu.RUnlock()
	if err := recs.Record(ctx, e); err != nil {
		s.log.Warning("activity: failed to record %s: %v", e.CookieDomain, err)
	}
}

// Config returns the provider the Api reads its snapshots from.
func (s *Api) Config() *config.Provider { return s.config }

// Tabs returns the per-tab tracker.
func (s *Api) Tabs() *activity.Memory { return s.tabs }

// Close closes the activity history, if any.
func (s *Api) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}

// Version reports the build the Api was started with.
func (s *Api) Version() common.VersionResponse {
	return common.VersionResponse{
		Version:   s.version,
		Commit:    s.commit,
		BuildType: s.buildType,
	}
}

// scriptHash is the hash CSP headers are patched with: the configured one
// when set, the built-in page hook's otherwise.
func (s *Api) scriptHash(cfg *policy.Config) string {
	if cfg != nil && cfg.ScriptHash != "" {
		return cfg.ScriptHash
	}
	return s.hookHash
}

// hostOf returns the lower-cased host of rawURL.
func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: url %q: %v", ErrInvalidParams, rawURL, err)
	}
	return strings.ToLower(u.Hostname()), nil
}
