//go:build !windows

package common

import "github.com/craigmiskell/cookiemaster/pkg/logger"

// systemLogger has nothing to add outside Windows; stderr already ends up
// in the journal or the browser's console.
func systemLogger() (logger.Logger, error) {
	return nil, nil
}
