package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/urfave/cli"
)

// Follow the asset directory and print the asset list whenever it changes.
func WatchAssets(ctx *cli.Context) error {
	e, err := startViewer(ctx, func(config *engine.ApplicationConfig) {
		config.Assets.Watch = true
		if config.Assets.Dir == "" {
			config.Assets.Dir = "assets"
		}
	})
	if err != nil {
		return err
	}
	defer e.Shutdown()

	out := ctx.App.Writer
	core.EventRegister(core.EVENT_CODE_ASSETS_CHANGED, "cli-watch", func(context core.EventContext) bool {
		if list, ok := context.Data.([]string); ok {
			fmt.Fprintf(out, "assets: %s\n", strings.Join(list, ", "))
		}
		return false
	})
	defer core.EventUnregister(core.EVENT_CODE_ASSETS_CHANGED, "cli-watch")

	fmt.Fprintf(out, "assets: %s\n", strings.Join(e.SystemManager().Locator.List(), ", "))

	runCtx, cancel := withTimeout(ctx)
	defer cancel()
	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := e.Run(runCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
