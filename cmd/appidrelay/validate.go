package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/atlanticdynamic/appidrelay/internal/fancy"
	"github.com/urfave/cli/v3"
)

var validateCmd = &cli.Command{
	Name:    "validate",
	Aliases: []string{"lint"},
	Usage:   "Validate a configuration file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Print the validated config as a tree",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the config file",
		},
	},
	Suggest:           true,
	ReadArgsFromStdin: true,
	Action:            validateAction,
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	// The --config flag wins over a positional path.
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf(
				"config file path required (pass --config or give the path as an argument)",
			)
		}
		configPath = cmd.Args().Get(0)
	}

	return validateLocal(configPath, cmd.Bool("tree"))
}

// renderConfigSummary formats the one-screen summary printed after a
// successful validation.
func renderConfigSummary(path string, cfg *config.Config) string {
	var b strings.Builder

	b.WriteString("\nConfig Summary:\n")
	fmt.Fprintf(&b, "- Path: %s\n", path)
	fmt.Fprintf(&b, "- Version: %s\n", cfg.Version)
	fmt.Fprintf(&b, "- Listen: %s\n", cfg.Server.Listen)
	fmt.Fprintf(&b, "- MCP path: %s\n", cfg.Server.MCPPath)
	fmt.Fprintf(&b, "- Upstream: %s\n", cfg.Upstream.BaseURL)
	fmt.Fprintf(&b, "- Timeout: %s\n", cfg.Upstream.Timeout)
	b.WriteString("\nRun with --tree for the full config layout.")

	return b.String()
}

func validateLocal(configPath string, treeView bool) error {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Printf("Configuration file %s is valid\n", fancy.PathText(configPath))

	if treeView {
		// Config implements Stringer as the fancy tree.
		fmt.Println(cfg)
		return nil
	}

	fmt.Println(renderConfigSummary(configPath, cfg))
	return nil
}
