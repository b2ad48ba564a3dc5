package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/policy"
	"github.com/urfave/cli"
)

var (
	requestHost string
	tabHost     string
	jsonOut     bool

	checkFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "request-host, r",
			Usage:       "host the response came from",
			Destination: &requestHost,
		},
		cli.StringFlag{
			Name:        "tab-host, t",
			Usage:       "host shown in the address bar (default: the request host)",
			Destination: &tabHost,
		},
		cli.BoolFlag{
			Name:        "json, j",
			Usage:       "print the decision as JSON (default: false)",
			Destination: &jsonOut,
		},
	}
)

// openRuntime loads the configuration for a one-shot command.
func openRuntime() (*common.Runtime, error) {
	return common.OpenRuntime(common.RuntimeOptions{LogOutput: os.Stderr})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func check(ctx *cli.Context) error {
	header := ctx.Args().First()
	if header == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no header provided"))
	}
	if requestHost == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--request-host is required"))
	}
	rt, err := openRuntime()
	if err != nil {
		common.PrintRuntimeErr(ctx, "check", "load_config", err)
		return nil
	}
	defer rt.Close()

	tab := tabHost
	if tab == "" {
		tab = requestHost
	}
	d := rt.Api.Evaluate(shared.EvaluateParams{
		Header:      header,
		RequestHost: requestHost,
		TabHost:     tab,
	})
	if jsonOut {
		return printJSON(d)
	}
	printDecision(d)
	return nil
}

func printDecision(d policy.Decision) {
	verdict := "blocked"
	if d.Allowed {
		verdict = "allowed"
	}
	party := "first-party"
	if d.ThirdParty {
		party = "third-party"
	}
	fmt.Printf("Header %s (%s)\n", verdict, party)
	if d.AllDeleted {
		fmt.Println("All cookies are being deleted; forwarded unchanged.")
	}
	for _, c := range d.Cookies {
		entry := "no allow list entry"
		if c.Matched {
			entry = fmt.Sprintf("allowed by %s (%s)", c.Entry.Domain, c.Entry.AllowType)
		}
		fmt.Printf("  %-20s %-24s %s\n", c.Name, c.Domain, entry)
	}
	if d.Dropped > 0 {
		fmt.Printf("%d cookie(s) could not be rewritten and were dropped.\n", d.Dropped)
	}
	if d.Allowed {
		fmt.Printf("Forwarded: %s\n", d.Header)
	}
}
