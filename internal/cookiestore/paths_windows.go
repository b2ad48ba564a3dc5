//go:build windows

package cookiestore

import (
	"os"
	"path/filepath"
)

// browserCookiePathsFor returns the browser specs for the given
// %LOCALAPPDATA% and %APPDATA% values.
func browserCookiePathsFor(localAppData, appData string) []browserSpec {
	userData := func(parts ...string) []string {
		return chromiumPaths(filepath.Join(append(append([]string{localAppData}, parts...), "User Data", "Default")...))
	}
	return []browserSpec{
		{Name: "Firefox", ProfilesIniPaths: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(appData, "LibreWolf", "profiles.ini")}},
		{Name: "Chrome", CookiePaths: userData("Google", "Chrome")},
		{Name: "Chromium", CookiePaths: userData("Chromium")},
		{Name: "Edge", CookiePaths: userData("Microsoft", "Edge")},
		{Name: "Brave", CookiePaths: userData("BraveSoftware", "Brave-Browser")},
	}
}

func browserCookiePaths() []browserSpec {
	return browserCookiePathsFor(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}
