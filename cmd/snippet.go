package cmd

import (
	"fmt"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/urfave/cli"
)

// Print the example code of a strategy.
func PrintSnippet(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("snippet expects a strategy name")
	}
	s, err := strategy.ParseStrategy(ctx.Args().First())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(ctx.App.Writer, "// %s\n%s\n", s.Label(), engine.Snippet(s))
	return err
}
