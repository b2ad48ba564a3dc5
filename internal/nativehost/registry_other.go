//go:build !windows

package nativehost

// Browsers outside Windows find manifests by their location alone.
func registerManifest(Browser, string) error { return nil }

func unregisterManifest(Browser) error { return nil }
