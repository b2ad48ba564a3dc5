//go:build !windows

package nativehost

func installEventSource() error { return nil }

func removeEventSource() error { return nil }
