package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/craigmiskell/cookiemaster/cmd/common"
	shared "github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/internal/daemon"
	"github.com/craigmiskell/cookiemaster/internal/server"
	"github.com/craigmiskell/cookiemaster/pkg/secret"
	"github.com/urfave/cli"
)

var (
	servePort   int
	listenAll   bool
	rotateToken bool
	showToken   bool
	origins     cli.StringSlice

	serveFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "port, p",
			Usage:       "port to listen on",
			Value:       shared.DefaultRPCPort,
			Destination: &servePort,
		},
		cli.BoolFlag{
			Name:        "listen-all",
			Usage:       "listen on all interfaces instead of loopback (default: false)",
			Destination: &listenAll,
		},
		cli.StringSliceFlag{
			Name:  "origin",
			Usage: "extra WebSocket origin pattern to accept, e.g. moz-extension://*",
			Value: &origins,
		},
		cli.BoolFlag{
			Name:        "rotate-token",
			Usage:       "generate a new access token before starting (default: false)",
			Destination: &rotateToken,
		},
		cli.BoolFlag{
			Name:        "show-token",
			Usage:       "print the access token (default: false)",
			Destination: &showToken,
		},
	}
)

func serve(ctx *cli.Context) error {
	rt, err := common.OpenRuntime(common.RuntimeOptions{
		LogOutput: os.Stderr,
		History:   true,
		Watch:     true,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "open_runtime", err)
		return nil
	}
	defer rt.Close()

	dataDir, err := shared.DataDir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "data_dir", err)
		return nil
	}
	secrets := secret.NewManager(dataDir, rt.Log)
	var token string
	if rotateToken {
		token, err = secrets.Rotate()
	} else {
		token, err = secrets.Token()
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "token", err)
		return nil
	}
	if showToken {
		fmt.Printf("Access token: %s\n", token)
	}

	rpc := server.NewRPCServer(&server.RPCConfig{
		Secret:         token,
		OriginPatterns: origins.Value(),
	}, rt.Api, rt.Log)
	defer rpc.Close()
	web := server.NewWebServer(rt.Log, rpc, servePort, listenAll)
	if _, err := web.Listen(); err != nil {
		common.PrintRuntimeErr(ctx, "serve", "listen", err)
		return nil
	}

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := daemon.New(web, nil, rt.Log).Run(sctx); err != nil {
		common.PrintRuntimeErr(ctx, "serve", "serve", err)
	}
	return nil
}
