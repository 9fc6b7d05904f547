package cmd

import (
	"github.com/spaghettifunk/modelview/engine"
	"github.com/urfave/cli"
)

// setupLogging lets -v and -vv override the configured log level. The level
// is applied by the engine when it starts.
func setupLogging(ctx *cli.Context, config *engine.ApplicationConfig) {
	if ctx.GlobalBool("v") {
		config.LogLevel = "info"
	}

	if ctx.GlobalBool("vv") {
		config.LogLevel = "debug"
	}
}
