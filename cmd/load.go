package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/urfave/cli"
)

// Load one model with the selected strategy and print what got mounted.
func LoadAsset(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("load expects exactly one model file name")
	}

	e, err := startViewer(ctx)
	if err != nil {
		return err
	}
	defer e.Shutdown()

	if err := e.Controller().SelectAsset(ctx.Args().First()); err != nil {
		return err
	}
	if name := ctx.String("strategy"); name != "" {
		s, err := strategy.ParseStrategy(name)
		if err != nil {
			return err
		}
		if err := e.Controller().SelectStrategy(s); err != nil {
			return err
		}
	}

	runCtx, cancel := withTimeout(ctx)
	defer cancel()

	state, err := e.WaitSettled(runCtx)
	if err != nil {
		return err
	}
	if err := writeFrame(ctx.App.Writer, state); err != nil {
		return err
	}
	if state.Status == engine.StatusFailed {
		return state.Err
	}
	return nil
}

func withTimeout(ctx *cli.Context) (context.Context, context.CancelFunc) {
	if timeout := ctx.Duration("timeout"); timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func writeFrame(w io.Writer, state engine.FrameState) error {
	var buf bytes.Buffer
	sel := state.Selection

	buf.WriteString(fmt.Sprintf("asset       %s (%s)\n", sel.Asset.FileName, sel.Asset.Format))
	buf.WriteString(fmt.Sprintf("strategy    %s\n", sel.Strategy.Label()))
	if state.Status == engine.StatusMounted && state.ResolvedBy != sel.Strategy {
		buf.WriteString(fmt.Sprintf("resolved by %s\n", state.ResolvedBy.Label()))
	}
	buf.WriteString(fmt.Sprintf("status      %s (generation %d)\n", state.Status, state.Generation))
	if state.Overlay != "" {
		buf.WriteString(fmt.Sprintf("overlay     %s\n", state.Overlay))
	}
	if len(state.Inventory) > 0 {
		buf.WriteString(fmt.Sprintf("parts       %s\n", strings.Join(state.Inventory, ", ")))
	}
	if state.Root != nil {
		buf.WriteString("\n")
		buf.WriteString(state.Root.String())
	}

	_, err := w.Write(buf.Bytes())
	return err
}
