package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"idlecorp/internal/config"
	"idlecorp/internal/game"
	"idlecorp/internal/sim"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadSimFromEnv()
	root := &cobra.Command{
		Use:          "idlecorp-sim",
		Short:        "Run the economy headless and write the resulting save",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	root.Flags().IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "seconds of game time to simulate")
	root.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 seeds from the clock)")
	root.Flags().StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "catalog YAML override")
	root.Flags().StringVarP(&cfg.Output, "out", "o", cfg.Output, "write the save blob here instead of stdout")
	root.Flags().Float64Var(&cfg.Reinvest, "reinvest", cfg.Reinvest, "share of the balance spent each tick by the scripted buyer (0 = idle)")

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.SimConfig) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("--ticks must be positive")
	}
	if cfg.Reinvest < 0 || cfg.Reinvest > 1 {
		return fmt.Errorf("--reinvest must be between 0 and 1")
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	var catalog *game.Catalog
	if cfg.CatalogPath != "" {
		c, err := game.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		catalog = c
	}

	engine, sum, err := sim.Run(ctx, sim.Config{
		Ticks:    cfg.Ticks,
		Seed:     cfg.Seed,
		Catalog:  catalog,
		Reinvest: cfg.Reinvest,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	logger.Info("simulation complete", "summary", sum)

	blob, err := engine.Export()
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		fmt.Println(blob)
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(blob+"\n"), 0o600); err != nil {
		return err
	}
	logger.Info("save written", "path", cfg.Output, "bytes", len(blob))
	return nil
}
