//go:build windows

package common

import (
	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

func systemLogger() (logger.Logger, error) {
	return logger.NewEventLogger(shared.AppName)
}
