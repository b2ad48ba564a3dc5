package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/urfave/cli"
)

var (
	cspHash        string
	cspSetScript   string
	cspResetScript bool

	cspFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "hash",
			Usage:       "base64 sha256 to add (default: the configured or built-in script hash)",
			Destination: &cspHash,
		},
		cli.StringFlag{
			Name:        "set-script",
			Usage:       "store the hash of this hook script file for later CSP patching",
			Destination: &cspSetScript,
		},
		cli.BoolFlag{
			Name:        "reset-script",
			Usage:       "go back to the built-in hook script hash",
			Destination: &cspResetScript,
		},
	}
)

func cspAugment(ctx *cli.Context) error {
	header := ctx.Args().First()
	if header == "" && cspSetScript == "" && !cspResetScript {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no header provided"))
	}
	if cspSetScript != "" && cspResetScript {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--set-script and --reset-script conflict"))
	}
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "csp", "load_config", err)
		return nil
	}
	defer rt.Close()

	if cspSetScript != "" || cspResetScript {
		var script string
		if cspSetScript != "" {
			b, err := os.ReadFile(cspSetScript)
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			script = string(b)
		}
		cfg, err := rt.Api.SetHookScript(script)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if cfg.ScriptHash == "" {
			fmt.Println("Hook script hash: built-in")
		} else {
			fmt.Println("Hook script hash:", cfg.ScriptHash)
		}
		if header == "" {
			return nil
		}
	}

	res := rt.Api.Augment(shared.AugmentParams{Header: header, Hash: cspHash})
	fmt.Println(res.Header)
	if !res.Changed {
		fmt.Println("(unchanged)")
	}
	return nil
}
