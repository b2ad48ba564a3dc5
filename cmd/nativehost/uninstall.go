package nativehost

import (
	"fmt"

	"github.com/craigmiskell/cookiemaster/internal/nativehost"
	"github.com/urfave/cli"
)

func uninstall(c *cli.Context) error {
	browsers, err := selectBrowsers(c.String("browser"), func(nativehost.Browser) bool { return true })
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	installer := newInstaller("", "", "")

	var removed, errs []string
	for _, b := range browsers {
		path, err := installer.Uninstall(b)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b, err))
			continue
		}
		removed = append(removed, fmt.Sprintf("%s: %s", b, path))
	}

	if c.String("browser") == "all" && len(errs) == 0 {
		if err := removeEventSource(); err != nil {
			// Never registered, or already removed.
			fmt.Printf("event log source not removed: %v\n", err)
		}
	}

	if len(removed) > 0 {
		fmt.Println("Uninstalled manifests (or were not installed):")
		for _, m := range removed {
			fmt.Printf("  %s\n", m)
		}
	}
	if len(errs) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		return cli.NewExitError("uninstall failed", 1)
	}
	return nil
}
