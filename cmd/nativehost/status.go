package nativehost

import (
	"fmt"

	"github.com/craigmiskell/cookiemaster/internal/nativehost"
	"github.com/urfave/cli"
)

func status(c *cli.Context) error {
	installer := newInstaller("", "", "")

	fmt.Println("Native Messaging Host Status")
	fmt.Println("============================")
	fmt.Printf("Host Name: %s\n\n", nativehost.HostName)

	for _, b := range nativehost.SupportedBrowsers() {
		path, ok := installer.Installed(b)
		if !ok {
			fmt.Printf("%s: Not installed\n", b)
			continue
		}
		fmt.Printf("%s: Installed\n", b)
		fmt.Printf("  Path: %s\n", path)
	}
	return nil
}
