package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("sync error: %w", err)
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Watch(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

func runHistory(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.History(ctx, int(cmd.Int("limit")), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("history error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "ansuz",
		Usage:  "Keep a Markdown Zettelkasten cross-referenced: maintain the unindexed note and tag index notes",
		Action: runSync,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Run one reconciliation pass over the vault",
				Action: runSync,
			},
			{
				Name:   "watch",
				Usage:  "Watch the vault and re-run the reconciliation pass on changes",
				Action: runWatch,
			},
			{
				Name:   "history",
				Usage:  "Show recent reconciliation runs from the journal",
				Action: runHistory,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
