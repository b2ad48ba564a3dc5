package nativehost

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// HostName is the name the extension connects to; the manifest's "name"
// field and file name must match it.
const HostName = "com.craigmiskell.cookiemaster"

const hostDescription = "CookieMaster cookie policy host"

// Browser names a browser a host manifest can be installed for.
type Browser string

const (
	BrowserFirefox  Browser = "firefox"
	BrowserChrome   Browser = "chrome"
	BrowserChromium Browser = "chromium"
	BrowserEdge     Browser = "edge"
	BrowserBrave    Browser = "brave"
)

// SupportedBrowsers lists every browser with a known manifest location.
func SupportedBrowsers() []Browser {
	return []Browser{BrowserFirefox, BrowserChrome, BrowserChromium, BrowserEdge, BrowserBrave}
}

// IsChromium reports whether b takes a Chrome-style manifest.
func (b Browser) IsChromium() bool {
	switch b {
	case BrowserChrome, BrowserChromium, BrowserEdge, BrowserBrave:
		return true
	}
	return false
}

// ParseBrowser accepts the names SupportedBrowsers returns.
func ParseBrowser(s string) (Browser, error) {
	for _, b := range SupportedBrowsers() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown browser: %s", s)
}

// ChromeManifest is the host manifest format of Chromium-based browsers.
type ChromeManifest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// FirefoxManifest is the host manifest format of Firefox.
type FirefoxManifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// GenerateChromeManifest returns the manifest that lets extensionID launch
// the host at hostPath.
func GenerateChromeManifest(hostPath, extensionID string) []byte {
	b, _ := json.MarshalIndent(ChromeManifest{
		Name:           HostName,
		Description:    hostDescription,
		Path:           hostPath,
		Type:           "stdio",
		AllowedOrigins: []string{"chrome-extension://" + extensionID + "/"},
	}, "", "  ")
	return b
}

// GenerateFirefoxManifest returns the Firefox manifest for the add-on
// extensionID.
func GenerateFirefoxManifest(hostPath, extensionID string) []byte {
	b, _ := json.MarshalIndent(FirefoxManifest{
		Name:              HostName,
		Description:       hostDescription,
		Path:              hostPath,
		Type:              "stdio",
		AllowedExtensions: []string{extensionID},
	}, "", "  ")
	return b
}

// ManifestPath returns where browser looks for the host manifest on
// platform (a GOOS value), or "" when there is no such place.
func ManifestPath(browser Browser, platform, homeDir string) string {
	file := HostName + ".json"
	switch platform {
	case "darwin":
		base := filepath.Join(homeDir, "Library", "Application Support")
		switch browser {
		case BrowserFirefox:
			return filepath.Join(base, "Mozilla", "NativeMessagingHosts", file)
		case BrowserChrome:
			return filepath.Join(base, "Google", "Chrome", "NativeMessagingHosts", file)
		case BrowserChromium:
			return filepath.Join(base, "Chromium", "NativeMessagingHosts", file)
		case BrowserEdge:
			return filepath.Join(base, "Microsoft Edge", "NativeMessagingHosts", file)
		case BrowserBrave:
			return filepath.Join(base, "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", file)
		}
	case "linux", "freebsd", "openbsd":
		switch browser {
		case BrowserFirefox:
			return filepath.Join(homeDir, ".mozilla", "native-messaging-hosts", file)
		case BrowserChrome:
			return filepath.Join(homeDir, ".config", "google-chrome", "NativeMessagingHosts", file)
		case BrowserChromium:
			return filepath.Join(homeDir, ".config", "chromium", "NativeMessagingHosts", file)
		case BrowserEdge:
			return filepath.Join(homeDir, ".config", "microsoft-edge", "NativeMessagingHosts", file)
		case BrowserBrave:
			return filepath.Join(homeDir, ".config", "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", file)
		}
	case "windows":
		// The browser finds this file through a registry key pointing at it.
		return filepath.Join(homeDir, "AppData", "Local", AppDirName, string(browser), file)
	}
	return ""
}

// AppDirName is the per-user directory manifests are kept in on Windows.
const AppDirName = "CookieMaster"

// ManifestInstaller writes and removes host manifests.
type ManifestInstaller struct {
	HostPath           string
	ChromeExtensionID  string
	FirefoxExtensionID string
	// BaseDir replaces the user's home directory when set.
	BaseDir string
	// Platform replaces runtime.GOOS when set.
	Platform string
}

func (m *ManifestInstaller) homeDir() string {
	if m.BaseDir != "" {
		return m.BaseDir
	}
	home, _ := os.UserHomeDir()
	return home
}

func (m *ManifestInstaller) platform() string {
	if m.Platform != "" {
		return m.Platform
	}
	return runtime.GOOS
}

// Path returns the manifest location for browser.
func (m *ManifestInstaller) Path(browser Browser) string {
	return ManifestPath(browser, m.platform(), m.homeDir())
}

// Install writes the manifest for browser and returns its path.
func (m *ManifestInstaller) Install(browser Browser) (string, error) {
	if m.HostPath == "" {
		return "", errors.New("host path is required")
	}
	var manifest []byte
	switch {
	case browser == BrowserFirefox:
		if m.FirefoxExtensionID == "" {
			return "", errors.New("firefox extension ID is required")
		}
		manifest = GenerateFirefoxManifest(m.HostPath, m.FirefoxExtensionID)
	case browser.IsChromium():
		if m.ChromeExtensionID == "" {
			return "", errors.New("chrome extension ID is required")
		}
		manifest = GenerateChromeManifest(m.HostPath, m.ChromeExtensionID)
	default:
		return "", fmt.Errorf("unknown browser: %s", browser)
	}

	path := m.Path(browser)
	if path == "" {
		return "", fmt.Errorf("unsupported browser/platform: %s/%s", browser, m.platform())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, manifest, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	if m.platform() == runtime.GOOS {
		if err := registerManifest(browser, path); err != nil {
			return "", err
		}
	}
	return path, nil
}

// Uninstall removes the manifest for browser and returns the path it was
// at. A manifest that was never installed is not an error.
func (m *ManifestInstaller) Uninstall(browser Browser) (string, error) {
	path := m.Path(browser)
	if path == "" {
		return "", fmt.Errorf("unsupported browser/platform: %s/%s", browser, m.platform())
	}
	if m.platform() == runtime.GOOS {
		if err := unregisterManifest(browser); err != nil {
			return path, err
		}
	}
	return path, UninstallManifest(path)
}

// Installed reports whether a manifest for browser exists.
func (m *ManifestInstaller) Installed(browser Browser) (string, bool) {
	path := m.Path(browser)
	if path == "" {
		return "", false
	}
	_, err := os.Stat(path)
	return path, err == nil
}

// UninstallManifest removes a manifest file; a missing file is not an error.
func UninstallManifest(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
