package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/atlanticdynamic/appidrelay/internal/fancy"
	"github.com/atlanticdynamic/appidrelay/internal/logging"
	"github.com/atlanticdynamic/appidrelay/internal/relay"
	"github.com/robbyt/go-loglater"
	"github.com/urfave/cli/v3"
)

var checkCmd = &cli.Command{
	Name:  "check",
	Usage: "Resolve one appid against the configured upstream and report the outcome",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to TOML configuration file (defaults to environment-only config)",
		},
		&cli.StringFlag{
			Name:     "db-name",
			Usage:    "Database name to resolve",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "region",
			Usage:    "Deployment region of the database",
			Required: true,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Replay the relay log lines after the verdict",
		},
	},
	Action: checkAction,
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := runCheck(ctx, cfg, cmd.String("db-name"), cmd.String("region"), cmd.Bool("verbose")); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

// runCheck performs one relay invocation against the configured upstream and
// prints the verdict. A non-nil return means the probe failed.
func runCheck(ctx context.Context, cfg *config.Config, dbName, region string, verbose bool) error {
	// Relay logs are collected rather than printed so the verdict stays
	// readable; they replay below on failure or with verbose set.
	collector := loglater.NewLogCollector(nil)
	rly := relay.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.AuthToken,
		relay.WithTimeout(cfg.Upstream.Timeout.AsDuration()),
		relay.WithHeaders(cfg.Upstream.Headers),
		relay.WithLogger(slog.New(collector).WithGroup("relay")),
	)

	req := relay.Request{DBName: dbName, Region: region}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid probe arguments: %w", err)
	}

	fmt.Printf("Probing %s\n", fancy.UpstreamText(rly.Endpoint()))
	result := rly.Handle(ctx, req)

	replay := verbose
	if result.OK() {
		fmt.Println(fancy.ValidText("Upstream reachable and responding"))
		fmt.Println(string(result.Payload()))
	} else {
		replay = true
		fmt.Println(fancy.ErrorText(fmt.Sprintf("%s: %s", result.Failure.Kind, result.Failure.Message)))
		if result.Failure.Details != "" {
			fmt.Println(fancy.SummaryText(result.Failure.Details))
		}
	}

	if replay {
		handler := logging.SetupHandlerText("debug", os.Stderr)
		if err := collector.PlayLogs(handler); err != nil {
			fmt.Fprintf(os.Stderr, "failed to replay logs: %v\n", err)
		}
	}

	if !result.OK() {
		return fmt.Errorf("check failed: %s", result.Failure.Kind)
	}
	return nil
}
