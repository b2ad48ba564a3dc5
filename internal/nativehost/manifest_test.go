package nativehost

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateManifests(t *testing.T) {
	var c ChromeManifest
	if err := json.Unmarshal(GenerateChromeManifest("/usr/bin/cookiemaster", "abcdef"), &c); err != nil {
		t.Fatal(err)
	}
	if c.Name != HostName || c.Type != "stdio" || c.Path != "/usr/bin/cookiemaster" {
		t.Errorf("chrome manifest = %+v", c)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "chrome-extension://abcdef/" {
		t.Errorf("allowed_origins = %v", c.AllowedOrigins)
	}

	var f FirefoxManifest
	if err := json.Unmarshal(GenerateFirefoxManifest("/usr/bin/cookiemaster", "cm@example.org"), &f); err != nil {
		t.Fatal(err)
	}
	if f.Name != HostName || len(f.AllowedExtensions) != 1 || f.AllowedExtensions[0] != "cm@example.org" {
		t.Errorf("firefox manifest = %+v", f)
	}
}

func TestManifestPath(t *testing.T) {
	tests := []struct {
		browser  Browser
		platform string
		contains string
	}{
		{BrowserFirefox, "linux", filepath.Join(".mozilla", "native-messaging-hosts")},
		{BrowserChrome, "linux", filepath.Join(".config", "google-chrome", "NativeMessagingHosts")},
		{BrowserBrave, "linux", filepath.Join("BraveSoftware", "Brave-Browser")},
		{BrowserFirefox, "darwin", filepath.Join("Application Support", "Mozilla", "NativeMessagingHosts")},
		{BrowserEdge, "darwin", "Microsoft Edge"},
		{BrowserChromium, "windows", filepath.Join(AppDirName, "chromium")},
	}
	for _, tt := range tests {
		t.Run(string(tt.browser)+"/"+tt.platform, func(t *testing.T) {
			got := ManifestPath(tt.browser, tt.platform, "/home/u")
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ManifestPath = %q, want it to contain %q", got, tt.contains)
			}
			if filepath.Base(got) != HostName+".json" {
				t.Errorf("manifest file = %q", filepath.Base(got))
			}
		})
	}
	if got := ManifestPath(BrowserFirefox, "plan9", "/home/u"); got != "" {
		t.Errorf("unsupported platform path = %q", got)
	}
}

func TestParseBrowser(t *testing.T) {
	for _, b := range SupportedBrowsers() {
		got, err := ParseBrowser(string(b))
		if err != nil || got != b {
			t.Errorf("ParseBrowser(%q) = %q, %v", b, got, err)
		}
	}
	if _, err := ParseBrowser("netscape"); err == nil {
		t.Error("ParseBrowser accepted an unknown browser")
	}
	if BrowserFirefox.IsChromium() || !BrowserEdge.IsChromium() {
		t.Error("IsChromium misclassified a browser")
	}
}

func TestInstallAndUninstall(t *testing.T) {
	dir := t.TempDir()
	installer := &ManifestInstaller{
		HostPath:           filepath.Join(dir, "cookiemaster"),
		ChromeExtensionID:  "abcdef",
		FirefoxExtensionID: "cm@example.org",
		BaseDir:            dir,
		Platform:           "linux",
	}

	for _, b := range []Browser{BrowserFirefox, BrowserChromium} {
		path, err := installer.Install(b)
		if err != nil {
			t.Fatalf("Install(%s): %v", b, err)
		}
		if path != installer.Path(b) {
			t.Errorf("Install(%s) path = %q, want %q", b, path, installer.Path(b))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read manifest: %v", err)
		}
		if !strings.Contains(string(data), installer.HostPath) {
			t.Errorf("manifest for %s lacks host path: %s", b, data)
		}
		if err := UninstallManifest(path); err != nil {
			t.Fatalf("UninstallManifest: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("manifest for %s still present", b)
		}
	}

	if err := UninstallManifest(filepath.Join(dir, "missing.json")); err != nil {
		t.Errorf("UninstallManifest on a missing file: %v", err)
	}
}

func TestInstallValidation(t *testing.T) {
	tests := []struct {
		name      string
		installer ManifestInstaller
		browser   Browser
	}{
		{"no host path", ManifestInstaller{FirefoxExtensionID: "cm@example.org"}, BrowserFirefox},
		{"no firefox id", ManifestInstaller{HostPath: "/bin/cm", ChromeExtensionID: "abc"}, BrowserFirefox},
		{"no chrome id", ManifestInstaller{HostPath: "/bin/cm", FirefoxExtensionID: "cm@example.org"}, BrowserChrome},
		{"unknown browser", ManifestInstaller{HostPath: "/bin/cm", ChromeExtensionID: "abc"}, Browser("mosaic")},
		{"unsupported platform", ManifestInstaller{HostPath: "/bin/cm", FirefoxExtensionID: "x", Platform: "plan9"}, BrowserFirefox},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.installer
			in.BaseDir = t.TempDir()
			if _, err := in.Install(tt.browser); err == nil {
				t.Error("Install succeeded, want error")
			}
		})
	}
}

func TestInstallerUninstallAndStatus(t *testing.T) {
	installer := &ManifestInstaller{
		HostPath:           "/usr/bin/cookiemaster",
		FirefoxExtensionID: "cm@example.org",
		BaseDir:            t.TempDir(),
		Platform:           "darwin",
	}
	if _, ok := installer.Installed(BrowserFirefox); ok {
		t.Fatal("Installed before install")
	}
	path, err := installer.Install(BrowserFirefox)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := installer.Installed(BrowserFirefox); !ok || got != path {
		t.Errorf("Installed = %q, %v; want %q", got, ok, path)
	}
	if removed, err := installer.Uninstall(BrowserFirefox); err != nil || removed != path {
		t.Errorf("Uninstall = %q, %v", removed, err)
	}
	if _, ok := installer.Installed(BrowserFirefox); ok {
		t.Error("Installed after uninstall")
	}
	if _, err := installer.Uninstall(BrowserFirefox); err != nil {
		t.Errorf("second Uninstall: %v", err)
	}
	installer.Platform = "plan9"
	if _, err := installer.Uninstall(BrowserFirefox); err == nil {
		t.Error("Uninstall on an unsupported platform succeeded")
	}
}
