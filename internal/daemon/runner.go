// Package daemon runs a long-lived server until its context ends and then
// shuts it down within a deadline.
package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

var (
	// ErrAlreadyRunning is returned when Run is called on a running runner.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// DefaultShutdownTimeout bounds the wait for requests in flight.
const DefaultShutdownTimeout = 5 * time.Second

// Server is what a Runner drives. Start blocks until Shutdown is called or
// serving fails.
type Server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// Config holds the configuration for the daemon runner.
type Config struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// OnShutdown runs after the server stopped, e.g. to close stores.
	OnShutdown func() error
}

// Runner manages the server lifecycle.
type Runner struct {
	config  Config
	server  Server
	log     logger.Logger
	mu      sync.Mutex
	running bool
}

// New creates a runner for srv. A nil config uses the defaults.
func New(srv Server, config *Config, l logger.Logger) *Runner {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Runner{config: cfg, server: srv, log: l}
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config {
	return r.config
}

// Run serves until ctx is canceled or the server fails, then shuts the
// server down. It returns the serving error, if any, or ErrShutdownTimeout.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	r.mu.Unlock()
	defer r.setStopped()

	served := make(chan error, 1)
	go func() {
		served <- r.server.Start()
	}()

	var err error
	select {
	case err = <-served:
		if err != nil {
			r.log.Error("daemon: server stopped: %v", err)
		}
	case <-ctx.Done():
		r.log.Info("daemon: shutting down")
		err = r.shutdown(served)
	}

	if r.config.OnShutdown != nil {
		if cerr := r.config.OnShutdown(); cerr != nil {
			r.log.Warning("daemon: cleanup: %v", cerr)
		}
	}
	return err
}

func (r *Runner) shutdown(served <-chan error) error {
	sctx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
	defer cancel()
	if err := r.server.Shutdown(sctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrShutdownTimeout
		}
		return err
	}
	select {
	case err := <-served:
		return err
	case <-sctx.Done():
		return ErrShutdownTimeout
	}
}

func (r *Runner) setStopped() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
