// Package nativehost provides the native-host commands: registering the
// host with browsers and serving the extension when a browser starts it.
package nativehost

import "github.com/urfave/cli"

var Commands = []cli.Command{
	{
		Name:   "install",
		Action: install,
		Usage:  "register the native messaging host with browsers",
		Flags:  installFlags,
	},
	{
		Name:   "uninstall",
		Action: uninstall,
		Usage:  "remove the native messaging host from browsers",
		Flags:  uninstallFlags,
	},
	{
		Name:   "run",
		Action: run,
		Usage:  "serve the extension over stdin/stdout (started by the browser)",
		Flags:  runFlags,
		Hidden: true,
	},
	{
		Name:   "status",
		Action: status,
		Usage:  "show where the host is registered",
	},
}

var installFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "browser",
		Usage: "browser to install for (firefox, chrome, chromium, edge, brave, all)",
		Value: "all",
	},
	cli.StringFlag{
		Name:  "chrome-extension-id",
		Usage: "extension ID for Chromium-based browsers",
	},
	cli.StringFlag{
		Name:  "firefox-extension-id",
		Usage: "add-on ID for Firefox",
	},
	cli.BoolFlag{
		Name:  "auto",
		Usage: "use the published extension IDs (for package manager hooks)",
	},
}

var uninstallFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "browser",
		Usage: "browser to uninstall from (firefox, chrome, chromium, edge, brave, all)",
		Value: "all",
	},
}

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "no-history",
		Usage: "do not keep the activity history database",
	},
}
