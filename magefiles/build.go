//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the modules and builds a static modelview binary into bin/.
func (Build) Binary() error {
	if _, err := runTool("build:binary", "go", withArgs("mod", "tidy")); err != nil {
		return err
	}
	_, err := runTool("build:binary", "go", withArgs("build", "-o", "bin/modelview", "."), withEnv("CGO_ENABLED", "0"), withStream())
	return err
}

// Runs go vet over every package.
func (Build) Vet() error {
	_, err := runTool("build:vet", "go", withArgs("vet", "./..."), withStream())
	return err
}
