package cmd

import (
	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/testbed"
	"github.com/urfave/cli"
)

// loadConfig reads --config when given and applies the global overrides.
func loadConfig(ctx *cli.Context) (*engine.ApplicationConfig, error) {
	config := engine.DefaultApplicationConfig()
	// Without -v the CLI only reports problems.
	config.LogLevel = "warn"
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if config, err = engine.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if dir := ctx.GlobalString("assets"); dir != "" {
		config.Assets.Dir = dir
	}
	setupLogging(ctx, config)
	return config, nil
}

// startViewer wires the engine with the viewer game. Callers must Shutdown it.
func startViewer(ctx *cli.Context, overrides ...func(*engine.ApplicationConfig)) (*engine.Engine, error) {
	config, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(config)
	}

	e, err := engine.New(testbed.NewViewerGame(config).Game)
	if err != nil {
		return nil, err
	}
	if err := e.Initialize(); err != nil {
		e.Shutdown()
		return nil, err
	}
	return e, nil
}
