package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/internal/api"
	"github.com/craigmiskell/cookiemaster/internal/config"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
	"github.com/spf13/afero"
)

// Build is the version information the binary was linked with.
type Build struct {
	Version   string
	Commit    string
	Date      string
	BuildType string
}

// CurrentBuild is set by Execute before any command runs.
var CurrentBuild Build

// RuntimeOptions selects what OpenRuntime sets up.
type RuntimeOptions struct {
	// LogOutput receives log lines; stderr when nil. Never stdout for the
	// native host, whose stdout carries the protocol.
	LogOutput io.Writer
	// History opens the SQLite activity store in the data directory.
	History bool
	// Watch reloads the configuration when the file changes on disk.
	Watch bool
	// SystemLog also logs to the platform's system log where supported.
	SystemLog bool
	// Fs replaces the OS filesystem for the configuration file.
	Fs afero.Fs
	// ConfigPath replaces the default configuration location.
	ConfigPath string
}

// Runtime is what a long-running command works with.
type Runtime struct {
	Api       *api.Api
	Config    *config.Provider
	Log       logger.Logger
	Ring      *logger.RingLogger
	History   *activity.Store
	stopWatch context.CancelFunc
}

// OpenRuntime loads the configuration and builds the Api over it.
func OpenRuntime(opts RuntimeOptions) (*Runtime, error) {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	std := logger.NewStandardLogger(log.New(out, "cookiemaster: ", log.LstdFlags))
	ring := logger.NewRingLogger(0)
	sinks := []logger.Logger{std, ring}
	if opts.SystemLog {
		sys, err := systemLogger()
		if err != nil {
			std.Warning("system log unavailable: %v", err)
		} else if sys != nil {
			sinks = append(sinks, sys)
		}
	}
	l := logger.NewMultiLogger(sinks...)
	if shared.DebugEnabled() {
		l.SetLevel(logger.LevelDebug)
	}

	path := opts.ConfigPath
	if path == "" {
		p, err := shared.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	provider := config.NewProvider(fsys, path, l)
	if err := provider.Load(); err != nil {
		return nil, err
	}

	rt := &Runtime{Config: provider, Log: l, Ring: ring}
	if opts.History {
		store, err := openHistory()
		if err != nil {
			return nil, err
		}
		rt.History = store
	}

	a, err := api.NewApi(provider, api.Options{
		Log:       l,
		Ring:      ring,
		History:   rt.History,
		Version:   CurrentBuild.Version,
		Commit:    CurrentBuild.Commit,
		BuildType: CurrentBuild.BuildType,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Api = a

	if opts.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		rt.stopWatch = cancel
		go config.NewWatcher(provider, 0).Watch(ctx)
	}
	return rt, nil
}

// OpenHistory opens the activity database in the data directory.
func OpenHistory() (*activity.Store, error) {
	return openHistory()
}

func openHistory() (*activity.Store, error) {
	dir, err := shared.DataDir()
	if err != nil {
		return nil, fmt.Errorf("locate data dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return activity.OpenStore(filepath.Join(dir, shared.ActivityDBName))
}

// Close stops the watcher and closes the history and loggers.
func (r *Runtime) Close() error {
	if r.stopWatch != nil {
		r.stopWatch()
	}
	var errs []error
	if r.Api != nil {
		errs = append(errs, r.Api.Close())
	} else if r.History != nil {
		errs = append(errs, r.History.Close())
	}
	if r.Log != nil {
		errs = append(errs, r.Log.Close())
	}
	return errors.Join(errs...)
}
