package cmd

import (
	"time"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/urfave/cli"
)

var timeoutFlag = cli.DurationFlag{
	Name:  "timeout, t",
	Value: 30 * time.Second,
	Usage: "give up after this long, 0 waits forever",
}

// NewApp builds the command line interface of the viewer.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "modelview"
	app.Usage = "compare direct, cached and declarative loading of 3D model assets"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from a TOML file",
		},
		cli.StringFlag{
			Name:  "assets, a",
			Usage: "directory holding the model files",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.After = func(*cli.Context) error {
		core.EventShutdown()
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "list",
			Usage:  "list available model assets",
			Action: ListAssets,
		},
		{
			Name:  "load",
			Usage: "load a model and print the mounted scene",
			Description: `
Select the model, apply the loading strategy and tick the scene host until the
load settles. Wavefront (.obj) models switch to the direct strategy; asking
for another strategy afterwards mounts the placeholder instead.`,
			ArgsUsage: "model_file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "strategy, s",
					Usage: "direct, cached or declarative (default from config)",
				},
				timeoutFlag,
			},
			Action: LoadAsset,
		},
		{
			Name:      "compare",
			Usage:     "load a model with every strategy and print timings",
			ArgsUsage: "model_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "rounds, r",
					Value: 2,
					Usage: "number of passes over the strategies",
				},
				timeoutFlag,
			},
			Action: CompareStrategies,
		},
		{
			Name:  "watch",
			Usage: "follow the asset directory and print changes",
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "timeout, t",
					Usage: "stop after this long, 0 runs until interrupted",
				},
			},
			Action: WatchAssets,
		},
		{
			Name:      "snippet",
			Usage:     "print the example code of a strategy",
			ArgsUsage: "strategy",
			Action:    PrintSnippet,
		},
	}

	return app
}
