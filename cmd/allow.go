package cmd

import (
	"errors"
	"fmt"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/urfave/cli"
)

var (
	allowSession bool
	forceReset   bool

	allowCommands = []cli.Command{
		{
			Name:               "add",
			Usage:              "allow cookies from a domain",
			ArgsUsage:          "<domain>",
			Action:             allowAdd,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:        "session, s",
					Usage:       "only allow session cookies (default: false)",
					Destination: &allowSession,
				},
			},
		},
		{
			Name:               "remove",
			Aliases:            []string{"rm"},
			Usage:              "stop allowing cookies from a domain",
			ArgsUsage:          "<domain>",
			Action:             allowRemove,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
		},
		{
			Name:               "list",
			Aliases:            []string{"ls"},
			Usage:              "show the allow list",
			Action:             allowList,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
		},
	}

	resetFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "do not ask for confirmation (default: false)",
			Destination: &forceReset,
		},
	}
)

func allowAdd(ctx *cli.Context) error {
	domain := ctx.Args().First()
	if domain == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no domain provided"))
	}
	t := allowlist.Persistent
	if allowSession {
		t = allowlist.Session
	}
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "allow", "load_config", err)
		return nil
	}
	defer rt.Close()

	if _, err := rt.Api.SetDomainAllow(shared.SetDomainParams{Domain: domain, AllowType: t}); err != nil {
		common.PrintRuntimeErr(ctx, "allow", "add", err)
		return nil
	}
	fmt.Printf("Allowed %s (%s)\n", allowlist.NormalizeDomain(domain), t)
	return nil
}

func allowRemove(ctx *cli.Context) error {
	domain := ctx.Args().First()
	if domain == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no domain provided"))
	}
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "allow", "load_config", err)
		return nil
	}
	defer rt.Close()

	res, err := rt.Api.RemoveDomain(shared.DomainParams{Domain: domain})
	if err != nil {
		common.PrintRuntimeErr(ctx, "allow", "remove", err)
		return nil
	}
	if !res.Removed {
		fmt.Printf("%s is not on the allow list\n", allowlist.NormalizeDomain(domain))
		return nil
	}
	fmt.Printf("Removed %s\n", allowlist.NormalizeDomain(domain))
	return nil
}

func allowList(ctx *cli.Context) error {
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "allow", "load_config", err)
		return nil
	}
	defer rt.Close()

	cfg := rt.Api.GetConfig()
	fmt.Printf("Third-party cookies: %s\n", cfg.ThirdParty)
	entries := cfg.AllowList.Sorted()
	if len(entries) == 0 {
		fmt.Println("cookiemaster: the allow list is empty")
		return nil
	}
	txt := "\n-----------------------------------------------------"
	txt += "\n|Num|              Domain               |   Type    |"
	txt += "\n|---|-----------------------------------|-----------|"
	for i, e := range entries {
		domain := e.Domain
		if len(domain) > 33 {
			domain = domain[:30] + "..."
		}
		txt += fmt.Sprintf("\n|%s| %s | %s |",
			common.Beaut(fmt.Sprint(i+1), 3),
			common.Beaut(domain, 33),
			common.Beaut(e.AllowType.String(), 9),
		)
	}
	txt += "\n-----------------------------------------------------"
	fmt.Println(txt)
	return nil
}

func thirdParty(ctx *cli.Context) error {
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "third-party", "load_config", err)
		return nil
	}
	defer rt.Close()

	arg := ctx.Args().First()
	if arg == "" {
		fmt.Println(rt.Api.GetConfig().ThirdParty)
		return nil
	}
	mode, err := policy.ParseThirdPartyPolicy(arg)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	if _, err := rt.Api.SetThirdParty(shared.ThirdPartyParams{Mode: mode}); err != nil {
		common.PrintRuntimeErr(ctx, "third-party", "set", err)
		return nil
	}
	fmt.Printf("Third-party cookies: %s\n", mode)
	return nil
}

func reset(ctx *cli.Context) error {
	if !confirm(command("reset"), forceReset) {
		return nil
	}
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "reset", "load_config", err)
		return nil
	}
	defer rt.Close()

	if _, err := rt.Api.ConfigChanged(shared.ConfigChangedParams{Reset: true}); err != nil {
		common.PrintRuntimeErr(ctx, "reset", "reset", err)
		return nil
	}
	fmt.Println("Configuration reset to defaults.")
	return nil
}
