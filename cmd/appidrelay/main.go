package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:    "appidrelay",
		Version: Version,
		Usage:   "MCP gateway that resolves appids through the upstream intercom gateway",
		Commands: []*cli.Command{
			versionCmd,
			validateCmd,
			checkCmd,
			serveCmd,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
