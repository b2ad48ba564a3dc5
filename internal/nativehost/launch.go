package nativehost

import (
	"path/filepath"
	"strings"
)

// LaunchedByBrowser reports whether args (os.Args) look like a browser
// starting the host. Firefox passes the manifest path and the add-on ID;
// Chromium browsers pass the caller's origin.
func LaunchedByBrowser(args []string) bool {
	if len(args) < 2 {
		return false
	}
	first := args[1]
	if strings.HasPrefix(first, "chrome-extension://") {
		return true
	}
	return filepath.Base(first) == HostName+".json"
}
