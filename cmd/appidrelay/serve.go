package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appidrelay/cmd/appidrelay/server"
	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/urfave/cli/v3"
)

var serveCmd = &cli.Command{
	Name:    "serve",
	Aliases: []string{"server"},
	Usage:   "Start the appidrelay MCP gateway",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to TOML configuration file (defaults to environment-only config)",
		},
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "Address to bind the HTTP listener (overrides config)",
		},
		&cli.BoolFlag{
			Name:  "stdio",
			Usage: "Serve MCP over stdio instead of HTTP",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (trace, debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format (text or json)",
		},
		&cli.StringFlag{
			Name:  "log-output",
			Usage: "Log destination (stderr, stdout, or a file path)",
		},
	},
	Action: serveAction,
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveServeConfig(cmd.String("config"), cmd.String("listen"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	// CLI flags win over the log section of the config file, and go through
	// the same parsing so a bad flag value fails instead of silently
	// defaulting.
	format := cfg.Log.Format
	if raw := cmd.String("log-format"); raw != "" {
		if format, err = config.LogFormatFromString(raw); err != nil {
			return cli.Exit(err, 1)
		}
	}
	level := cfg.Log.Level
	if raw := cmd.String("log-level"); raw != "" {
		if level, err = config.LogLevelFromString(raw); err != nil {
			return cli.Exit(err, 1)
		}
	}
	output := firstNonEmpty(cmd.String("log-output"), cfg.Log.Output)
	if err := SetupLogger(format.String(), level.String(), output); err != nil {
		return cli.Exit(err, 1)
	}

	return server.Run(ctx, slog.Default(), cfg, cmd.Bool("stdio"), cmd.Root().Version)
}

// resolveServeConfig loads the configuration and applies the listen override
// from the CLI, re-validating after the mutation.
func resolveServeConfig(configPath, listen string) (*config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if listen != "" {
		cfg.Server.Listen = listen
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid listen address: %w", err)
		}
	}

	return cfg, nil
}

// loadConfig reads and validates the TOML file at path, or builds the
// environment-only default configuration when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.NewConfig(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
