//go:build windows

package nativehost

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// registryKey is where browser looks up the manifest path on Windows.
func registryKey(browser Browser) string {
	var base string
	switch browser {
	case BrowserFirefox:
		base = `Software\Mozilla`
	case BrowserChrome:
		base = `Software\Google\Chrome`
	case BrowserChromium:
		base = `Software\Chromium`
	case BrowserEdge:
		base = `Software\Microsoft\Edge`
	case BrowserBrave:
		base = `Software\BraveSoftware\Brave-Browser`
	default:
		return ""
	}
	return base + `\NativeMessagingHosts\` + HostName
}

func registerManifest(browser Browser, manifestPath string) error {
	path := registryKey(browser)
	if path == "" {
		return fmt.Errorf("unknown browser: %s", browser)
	}
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create registry key: %w", err)
	}
	defer k.Close()
	if err := k.SetStringValue("", manifestPath); err != nil {
		return fmt.Errorf("set registry value: %w", err)
	}
	return nil
}

func unregisterManifest(browser Browser) error {
	path := registryKey(browser)
	if path == "" {
		return nil
	}
	err := registry.DeleteKey(registry.CURRENT_USER, path)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	}
	return err
}
