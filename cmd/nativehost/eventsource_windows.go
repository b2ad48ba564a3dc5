//go:build windows

package nativehost

import (
	"strings"

	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// installEventSource registers the host's Windows event log source. An
// existing registration is kept.
func installEventSource() error {
	err := logger.InstallEventSource(shared.AppName)
	if err != nil && strings.Contains(err.Error(), "exists") {
		return nil
	}
	return err
}

func removeEventSource() error {
	return logger.RemoveEventSource(shared.AppName)
}
