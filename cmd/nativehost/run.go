package nativehost

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cmdCommon "github.com/craigmiskell/cookiemaster/cmd/common"
	"github.com/craigmiskell/cookiemaster/internal/nativehost"
	"github.com/urfave/cli"
)

func run(c *cli.Context) error {
	rt, err := cmdCommon.OpenRuntime(cmdCommon.RuntimeOptions{
		LogOutput: os.Stderr,
		History:   !c.Bool("no-history"),
		Watch:     true,
		SystemLog: true,
	})
	if err != nil {
		// stderr ends up in the browser console.
		fmt.Fprintf(os.Stderr, "failed to start native host: %v\n", err)
		return cli.NewExitError("failed to start native host", 1)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt.Log.Info("native host started (%s)", cmdCommon.CurrentBuild.Version)
	if err := nativehost.NewHost(rt.Api, rt.Log).Run(ctx); err != nil && ctx.Err() == nil {
		rt.Log.Error("native host: %v", err)
		return cli.NewExitError("native host error", 1)
	}
	rt.Log.Info("native host stopped")
	return nil
}
