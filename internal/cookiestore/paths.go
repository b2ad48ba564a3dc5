package cookiestore

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoStore is returned when no known browser cookie store exists.
var ErrNoStore = errors.New("no supported browser cookie store found")

// browserSpec lists where one browser keeps its cookies. Firefox-family
// browsers are found through profiles.ini, Chromium-family through direct
// file candidates.
type browserSpec struct {
	Name             string
	CookiePaths      []string
	ProfilesIniPaths []string
}

// chromiumPaths returns the two places a Chromium profile may keep its
// Cookies file, newest layout first.
func chromiumPaths(profileDir string) []string {
	return []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
}

// parseProfilesIni returns the default profile directory named in a
// Firefox-style profiles.ini, or "" when there is none. An [Install*]
// Default= key wins over a [Profile*] section marked Default=1.
func parseProfilesIni(iniPath string) string {
	f, err := os.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	var (
		base           = filepath.Dir(iniPath)
		installDefault string
		profileDefault string
		section        string
		path           string
		isDefault      bool
	)
	flush := func() {
		if strings.HasPrefix(section, "Profile") && isDefault && profileDefault == "" {
			profileDefault = path
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			flush()
			section = strings.TrimSuffix(line[1:], "]")
			path, isDefault = "", false
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, val := strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case strings.HasPrefix(section, "Install") && key == "Default" && installDefault == "":
			installDefault = filepath.Join(base, filepath.FromSlash(val))
		case strings.HasPrefix(section, "Profile") && key == "Path":
			path = filepath.Join(base, filepath.FromSlash(val))
		case strings.HasPrefix(section, "Profile") && key == "Default":
			isDefault = val == "1"
		}
	}
	flush()

	if installDefault != "" {
		return installDefault
	}
	return profileDefault
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// locateWithSpecs returns every existing store in spec order, at most one
// per browser.
func locateWithSpecs(specs []browserSpec) []Source {
	var found []Source
	for _, spec := range specs {
		candidates := spec.CookiePaths
		for _, ini := range spec.ProfilesIniPaths {
			if dir := parseProfilesIni(ini); dir != "" {
				candidates = append(candidates, filepath.Join(dir, "cookies.sqlite"))
			}
		}
		for _, p := range candidates {
			if !exists(p) {
				continue
			}
			format := FormatChrome
			if len(spec.ProfilesIniPaths) > 0 {
				format = FormatFirefox
			}
			found = append(found, Source{Path: p, Format: format, Browser: spec.Name})
			break
		}
	}
	return found
}

// LocateStores lists the cookie stores of installed browsers, in priority
// order Firefox, LibreWolf, Chrome, Chromium, Edge, Brave.
func LocateStores() []Source {
	return locateWithSpecs(browserCookiePaths())
}

// DefaultStore returns the highest priority cookie store on this machine.
func DefaultStore() (Source, error) {
	stores := LocateStores()
	if len(stores) == 0 {
		return Source{}, ErrNoStore
	}
	return stores[0], nil
}
