/*
Command line front end of the model viewer. Every command boots the engine
with the viewer game from the testbed package.
*/
package main

import (
	"os"

	"github.com/spaghettifunk/modelview/cmd"
	"github.com/spaghettifunk/modelview/engine/core"
)

func main() {
	if err := cmd.NewApp().Run(os.Args); err != nil {
		core.LogFatal("%s", err.Error())
	}
}
