//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Loads the default model from ./assets with every strategy.
func (Run) Viewer() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run viewer...")
	if _, err := runTool("run:viewer", "bin/modelview", withArgs("-v", "--assets", "assets", "compare", "model.glb"), withStream()); err != nil {
		return err
	}
	return nil
}

// Follows ./assets and prints every change until interrupted.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	_, err := runTool("run:watch", "bin/modelview", withArgs("-v", "--assets", "assets", "watch", "-t", "0"), withStream())
	return err
}

type Test mg.Namespace

// Runs the whole test suite with the race detector.
func (Test) All() error {
	_, err := runTool("test:all", "go", withArgs("test", "-race", "-count=1", "./..."), withStream())
	return err
}
