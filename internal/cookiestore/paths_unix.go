//go:build unix

package cookiestore

import (
	"os"
	"path/filepath"
	"runtime"
)

// browserCookiePathsFor returns the browser specs for a home directory on
// goos ("darwin" or anything else for the XDG layout).
func browserCookiePathsFor(home, goos string) []browserSpec {
	if goos == "darwin" {
		support := filepath.Join(home, "Library", "Application Support")
		return []browserSpec{
			{Name: "Firefox", ProfilesIniPaths: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(support, "librewolf", "profiles.ini")}},
			{Name: "Chrome", CookiePaths: chromiumPaths(filepath.Join(support, "Google", "Chrome", "Default"))},
			{Name: "Chromium", CookiePaths: chromiumPaths(filepath.Join(support, "Chromium", "Default"))},
			{Name: "Edge", CookiePaths: chromiumPaths(filepath.Join(support, "Microsoft Edge", "Default"))},
			{Name: "Brave", CookiePaths: chromiumPaths(filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default"))},
		}
	}
	cfg := filepath.Join(home, ".config")
	return []browserSpec{
		{Name: "Firefox", ProfilesIniPaths: []string{
			filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
			filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}},
		{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(home, ".librewolf", "profiles.ini")}},
		{Name: "Chrome", CookiePaths: chromiumPaths(filepath.Join(cfg, "google-chrome", "Default"))},
		{Name: "Chromium", CookiePaths: chromiumPaths(filepath.Join(cfg, "chromium", "Default"))},
		{Name: "Edge", CookiePaths: chromiumPaths(filepath.Join(cfg, "microsoft-edge", "Default"))},
		{Name: "Brave", CookiePaths: chromiumPaths(filepath.Join(cfg, "BraveSoftware", "Brave-Browser", "Default"))},
	}
}

func browserCookiePaths() []browserSpec {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return browserCookiePathsFor(home, runtime.GOOS)
}
