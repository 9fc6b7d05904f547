//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type toolOptions struct {
	args   []string
	env    map[string]string
	stream bool
}

type toolOption func(*toolOptions)

func withArgs(args ...string) toolOption {
	return func(o *toolOptions) {
		o.args = args
	}
}

// withEnv adds an environment variable on top of the current environment.
func withEnv(key, value string) toolOption {
	return func(o *toolOptions) {
		o.env[key] = value
	}
}

func withStream() toolOption {
	return func(o *toolOptions) {
		o.stream = true
	}
}

/**
 * @brief Runs a tool on behalf of a mage target.
 * Output is kept and printed only on failure unless the target streams it or
 * mage runs with -v.
 * @return The combined output and an mg.Fatal error carrying the exit status.
 */
func runTool(target, command string, options ...toolOption) (string, error) {
	opts := &toolOptions{env: make(map[string]string)}
	for _, o := range options {
		o(opts)
	}
	line := strings.TrimSpace(command + " " + strings.Join(opts.args, " "))
	fmt.Printf("[%s] %s\n", target, line)

	var b bytes.Buffer
	var stdout, stderr io.Writer = &b, &b
	streamed := opts.stream || mg.Verbose()
	if streamed {
		stdout = io.MultiWriter(&b, os.Stdout)
		stderr = io.MultiWriter(&b, os.Stderr)
	}

	ran, err := sh.Exec(opts.env, stdout, stderr, command, opts.args...)
	if err == nil {
		return b.String(), nil
	}
	if !ran {
		return "", mg.Fatalf(1, "%s: %s is not installed: %v", target, command, err)
	}
	if !streamed {
		fmt.Printf("[%s] output of the failed command:\n%s\n", target, b.String())
	}
	return "", mg.Fatalf(sh.ExitStatus(err), "%s: '%s' failed: %v", target, line, err)
}
