package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/urfave/cli"
)

// List the model files the viewer can offer.
func ListAssets(ctx *cli.Context) error {
	e, err := startViewer(ctx)
	if err != nil {
		return err
	}
	defer e.Shutdown()

	locator := e.SystemManager().Locator
	descriptors := locator.Descriptors()

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%d model asset(s):\n\n", len(descriptors)))
	for _, desc := range descriptors {
		buf.WriteString(fmt.Sprintf("  %-32s %-10s %s\n", desc.FileName, desc.Format, locator.URL(desc.FileName)))
	}

	if identities := e.SystemManager().Registry.Identities(); len(identities) > 0 {
		buf.WriteString(fmt.Sprintf("\ndeclarative graphs: %s\n", strings.Join(identities, ", ")))
	}

	_, err = ctx.App.Writer.Write(buf.Bytes())
	return err
}
