package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

// Version is stamped at build time via ldflags.
var Version = "dev"

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print version and build information",
	Action: func(_ context.Context, cmd *cli.Command) error {
		fmt.Printf("appidrelay %s (%s, %s/%s)\n",
			cmd.Root().Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
