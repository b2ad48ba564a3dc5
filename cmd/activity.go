package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/urfave/cli"
)

var (
	activitySince   time.Duration
	activityDomain  string
	activityAllowed bool
	activityBlocked bool
	activityLimit   int
	activityJSON    bool
	pruneOlderThan  time.Duration

	activityCommands = []cli.Command{
		{
			Name:               "list",
			Aliases:            []string{"ls"},
			Usage:              "show recorded decisions, newest first",
			Action:             activityList,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:        "since, s",
					Usage:       "only show events this recent (default: all)",
					Destination: &activitySince,
				},
				cli.StringFlag{
					Name:        "domain, d",
					Usage:       "only show events for this domain and its subdomains",
					Destination: &activityDomain,
				},
				cli.BoolFlag{
					Name:        "allowed",
					Usage:       "only show allowed cookies (default: false)",
					Destination: &activityAllowed,
				},
				cli.BoolFlag{
					Name:        "blocked",
					Usage:       "only show blocked cookies (default: false)",
					Destination: &activityBlocked,
				},
				cli.IntFlag{
					Name:        "limit, n",
					Usage:       "maximum number of events",
					Value:       50,
					Destination: &activityLimit,
				},
				cli.BoolFlag{
					Name:        "json, j",
					Usage:       "print events as JSON (default: false)",
					Destination: &activityJSON,
				},
			},
		},
		{
			Name:               "prune",
			Usage:              "delete old events",
			Action:             activityPrune,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:        "older-than, o",
					Usage:       "delete events older than this",
					Value:       30 * 24 * time.Hour,
					Destination: &pruneOlderThan,
				},
			},
		},
	}
)

// activityFilter turns the list flags into a store filter.
func activityFilter(now time.Time) (activity.Filter, error) {
	if activityAllowed && activityBlocked {
		return activity.Filter{}, errors.New("--allowed and --blocked are mutually exclusive")
	}
	if activityLimit < 0 {
		return activity.Filter{}, errors.New("--limit must not be negative")
	}
	f := activity.Filter{Domain: activityDomain, Limit: activityLimit}
	if activitySince > 0 {
		f.Since = now.Add(-activitySince)
	}
	switch {
	case activityAllowed:
		v := true
		f.Allowed = &v
	case activityBlocked:
		v := false
		f.Allowed = &v
	}
	return f, nil
}

func activityList(ctx *cli.Context) error {
	f, err := activityFilter(time.Now())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	store, err := common.OpenHistory()
	if err != nil {
		common.PrintRuntimeErr(ctx, "activity", "open_history", err)
		return nil
	}
	defer store.Close()

	events, err := store.List(context.Background(), f)
	if err != nil {
		common.PrintRuntimeErr(ctx, "activity", "list", err)
		return nil
	}
	if activityJSON {
		if events == nil {
			events = []activity.Event{}
		}
		return printJSON(events)
	}
	if len(events) == 0 {
		fmt.Println("cookiemaster: no activity recorded")
		return nil
	}
	for _, e := range events {
		verdict := "blocked"
		if e.Allowed {
			verdict = "allowed"
		}
		fmt.Printf("%s  %-7s %-5s %-6s %s",
			e.Time.Local().Format("2006-01-02 15:04:05"), verdict, e.Party, e.Source, e.CookieDomain)
		if e.ConfigDomain != e.CookieDomain {
			fmt.Printf(" (via %s)", e.ConfigDomain)
		}
		fmt.Println()
	}
	return nil
}

func activityPrune(ctx *cli.Context) error {
	if pruneOlderThan <= 0 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--older-than must be positive"))
	}
	store, err := common.OpenHistory()
	if err != nil {
		common.PrintRuntimeErr(ctx, "activity", "open_history", err)
		return nil
	}
	defer store.Close()

	n, err := store.Prune(context.Background(), time.Now().Add(-pruneOlderThan))
	if err != nil {
		common.PrintRuntimeErr(ctx, "activity", "prune", err)
		return nil
	}
	fmt.Printf("Pruned %d event(s)\n", n)
	return nil
}
