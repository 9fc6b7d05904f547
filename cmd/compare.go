package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/urfave/cli"
)

// Load the same model with every strategy, round after round, and print
// what each one mounted and how long it took.
func CompareStrategies(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("compare expects exactly one model file name")
	}
	rounds := ctx.Int("rounds")
	if rounds < 1 {
		rounds = 1
	}

	e, err := startViewer(ctx)
	if err != nil {
		return err
	}
	defer e.Shutdown()

	runCtx, cancel := withTimeout(ctx)
	defer cancel()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%-6s %-22s %-12s %-22s %-7s %s\n", "round", "strategy", "status", "resolved by", "meshes", "time"))
	for round := 1; round <= rounds; round++ {
		for _, s := range strategy.All {
			// Asset first: a Wavefront asset forces Direct, the strategy
			// selection afterwards keeps the requested one.
			if err := e.Controller().SelectAsset(ctx.Args().First()); err != nil {
				return err
			}
			if err := e.Controller().SelectStrategy(s); err != nil {
				return err
			}

			start := time.Now()
			state, err := e.WaitSettled(runCtx)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			meshes := 0
			if state.Root != nil {
				meshes = len(state.Root.Meshes())
			}
			buf.WriteString(fmt.Sprintf("%-6d %-22s %-12s %-22s %-7d %s\n",
				round, s.Label(), state.Status, state.ResolvedBy.Label(), meshes, elapsed.Round(time.Microsecond)))
		}
	}

	metrics := e.SystemManager().Metrics
	loads, fails := metrics.Counts()
	buf.WriteString(fmt.Sprintf("\n%d load(s), %d failed, average %s\n", loads, fails, metrics.AverageLoadTime().Round(time.Microsecond)))
	if ctx.GlobalBool("v") || ctx.GlobalBool("vv") {
		buf.WriteString("\nrecent loads:\n")
		for _, sample := range metrics.Recent() {
			result := "ok"
			if sample.Failed {
				result = "failed"
			}
			buf.WriteString(fmt.Sprintf("  %-24s %-12s %-7s %s\n", sample.Asset, sample.Strategy, result, sample.Duration.Round(time.Microsecond)))
		}
	}

	_, err = ctx.App.Writer.Write(buf.Bytes())
	return err
}
