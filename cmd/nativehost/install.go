package nativehost

import (
	"fmt"
	"os"

	"github.com/craigmiskell/cookiemaster/internal/nativehost"
	"github.com/urfave/cli"
)

// executable is replaced in tests.
var executable = os.Executable

// newInstaller is replaced in tests to redirect manifests.
var newInstaller = func(hostPath, chromeID, firefoxID string) *nativehost.ManifestInstaller {
	return &nativehost.ManifestInstaller{
		HostPath:           hostPath,
		ChromeExtensionID:  chromeID,
		FirefoxExtensionID: firefoxID,
	}
}

// selectBrowsers expands the --browser flag, keeping only the browsers an
// extension ID was given for when want says so.
func selectBrowsers(name string, want func(nativehost.Browser) bool) ([]nativehost.Browser, error) {
	if name == "all" {
		var out []nativehost.Browser
		for _, b := range nativehost.SupportedBrowsers() {
			if want(b) {
				out = append(out, b)
			}
		}
		return out, nil
	}
	b, err := nativehost.ParseBrowser(name)
	if err != nil {
		return nil, err
	}
	return []nativehost.Browser{b}, nil
}

func install(c *cli.Context) error {
	chromeID := c.String("chrome-extension-id")
	firefoxID := c.String("firefox-extension-id")
	if c.Bool("auto") {
		if !nativehost.HasOfficialExtensions() {
			fmt.Println("No published extension IDs; nothing to install.")
			return nil
		}
		if chromeID == "" {
			chromeID = nativehost.OfficialChromeExtensionID
		}
		if firefoxID == "" {
			firefoxID = nativehost.OfficialFirefoxExtensionID
		}
	}
	if chromeID == "" && firefoxID == "" {
		return cli.NewExitError("at least one extension ID is required (--chrome-extension-id or --firefox-extension-id)", 1)
	}

	hostPath, err := executable()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("failed to get executable path: %v", err), 1)
	}
	installer := newInstaller(hostPath, chromeID, firefoxID)

	browsers, err := selectBrowsers(c.String("browser"), func(b nativehost.Browser) bool {
		if b.IsChromium() {
			return chromeID != ""
		}
		return firefoxID != ""
	})
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var installed, errs []string
	for _, b := range browsers {
		path, err := installer.Install(b)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b, err))
			continue
		}
		installed = append(installed, fmt.Sprintf("%s: %s", b, path))
	}
	if len(installed) > 0 {
		if err := installEventSource(); err != nil {
			errs = append(errs, fmt.Sprintf("event log: %v", err))
		}
	}

	if len(installed) > 0 {
		fmt.Println("Installed manifests:")
		for _, m := range installed {
			fmt.Printf("  %s\n", m)
		}
	}
	if len(errs) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		if len(installed) == 0 {
			return cli.NewExitError("installation failed", 1)
		}
	}
	return nil
}
