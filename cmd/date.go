package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	"github.com/craigmiskell/cookiemaster/internal/cookies"
	"github.com/urfave/cli"
)

func date(ctx *cli.Context) error {
	text := strings.Join(ctx.Args(), " ")
	if text == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no date provided"))
	}
	d, ok := cookies.ParseDate(text)
	if !ok {
		return cli.NewExitError(fmt.Sprintf("invalid cookie date: %q", text), 1)
	}
	fmt.Println(d.Time().Format(time.RFC1123))
	return nil
}
