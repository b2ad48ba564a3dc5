package cmd

import (
	"fmt"
	"runtime"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	"github.com/craigmiskell/cookiemaster/cmd/nativehost"
	hostproto "github.com/craigmiskell/cookiemaster/internal/nativehost"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// hostArgs routes a browser launch, which passes the manifest path or the
// extension origin as the only arguments, to the native host.
func hostArgs(args []string) []string {
	if hostproto.LaunchedByBrowser(args) {
		return []string{args[0], "native-host", "run"}
	}
	return args
}

func Execute(args []string, bArgs BuildArgs) error {
	common.CurrentBuild = common.Build{
		Version:   bArgs.Version,
		Commit:    bArgs.Commit,
		Date:      bArgs.Date,
		BuildType: bArgs.BuildType,
	}
	args = hostArgs(args)
	app := cli.App{
		Name:                  "cookiemaster",
		HelpName:              "cookiemaster",
		Usage:                 "Allow-list based cookie control for web browsers.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "cookiemaster <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "check",
				Usage:              "evaluate a Set-Cookie header against the policy",
				ArgsUsage:          "<header>",
				Action:             check,
				Flags:              checkFlags,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        CheckDescription,
			},
			{
				Name:               "csp",
				Usage:              "add the hook script hash to a CSP header",
				ArgsUsage:          "<header>",
				Action:             cspAugment,
				Flags:              cspFlags,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        CspDescription,
			},
			{
				Name:               "date",
				Usage:              "parse a cookie expiry date",
				ArgsUsage:          "<date>",
				Action:             date,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DateDescription,
			},
			{
				Name:        "allow",
				Aliases:     []string{"a"},
				Usage:       "edit the allow list",
				Description: AllowDescription,
				Subcommands: allowCommands,
			},
			{
				Name:               "third-party",
				Usage:              "show or set the third-party cookie policy",
				ArgsUsage:          "[AllowAll|AllowNone|AllowIfOtherwiseAllowed]",
				Action:             thirdParty,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ThirdPartyDescription,
			},
			{
				Name:               "reset",
				Usage:              "restore the default configuration",
				Action:             reset,
				Flags:              resetFlags,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ResetDescription,
			},
			{
				Name:               "audit",
				Usage:              "check a browser cookie store against the policy",
				ArgsUsage:          "[store path]",
				Action:             audit,
				Flags:              auditFlags,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AuditDescription,
			},
			{
				Name:        "activity",
				Usage:       "show or prune the cookie activity history",
				Description: ActivityDescription,
				Subcommands: activityCommands,
			},
			{
				Name:               "serve",
				Usage:              "serve the policy over JSON-RPC",
				Action:             serve,
				Flags:              serveFlags,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ServeDescription,
			},
			{
				Name:        "native-host",
				Usage:       "manage browser native messaging registration",
				Description: NativeHostDescription,
				Subcommands: nativehost.Commands,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of cookiemaster",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
