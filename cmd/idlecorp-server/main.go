package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"idlecorp/internal/api"
	"idlecorp/internal/config"
	"idlecorp/internal/db"
	"idlecorp/internal/game"
	"idlecorp/internal/metrics"
	"idlecorp/internal/saves"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	catalog, err := game.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = game.LoadCatalog(cfg.CatalogPath)
	}
	if err != nil {
		logger.Error("catalog load failed", "path", cfg.CatalogPath, "err", err)
		os.Exit(1)
	}

	var store saves.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := saves.NewPGStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("saves schema failed", "err", err)
			os.Exit(1)
		}
		store = pg
	} else {
		fs, err := saves.NewFileStore(cfg.SaveDir)
		if err != nil {
			logger.Error("save dir init failed", "dir", cfg.SaveDir, "err", err)
			os.Exit(1)
		}
		store = fs
	}

	var (
		collector *metrics.Collector
		gatherer  prometheus.Gatherer
		onTick    func(game.TickReport)
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewCollector()
		if err := collector.Register(reg); err != nil {
			logger.Error("metrics register failed", "err", err)
			os.Exit(1)
		}
		gatherer = reg
		onTick = collector.ObserveTick
	}

	engine, err := game.NewEngine(game.Options{
		Catalog: catalog,
		Seed:    cfg.Seed,
		Logger:  logger,
		OnTick:  onTick,
	})
	if err != nil {
		logger.Error("engine init failed", "err", err)
		os.Exit(1)
	}

	if blob, err := store.Load(ctx, cfg.SaveSlot); err == nil {
		if err := engine.Import(blob); err != nil {
			logger.Error("resume failed, starting a new game", "slot", cfg.SaveSlot, "err", err)
		}
	} else if !errors.Is(err, saves.ErrNoSave) {
		logger.Error("save read failed", "slot", cfg.SaveSlot, "err", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := engine.Run(ctx, cfg.TickEvery); err != nil {
			logger.Error("engine stopped", "err", err)
			stop()
		}
	}()
	if cfg.AutosaveEvery > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			autosave(ctx, logger, engine, store, collector, cfg.SaveSlot, cfg.AutosaveEvery)
		}()
	}

	server := api.New(logger, engine, store, collector, gatherer)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("idlecorp server listening", "addr", cfg.Addr, "tick_every", cfg.TickEvery.String())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
	wg.Wait()

	finalCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := saveNow(finalCtx, engine, store, cfg.SaveSlot); err != nil {
		logger.Error("final save failed", "slot", cfg.SaveSlot, "err", err)
		os.Exit(1)
	}
	logger.Info("final save written", "slot", cfg.SaveSlot)
}

func autosave(ctx context.Context, logger *slog.Logger, engine *game.Engine, store saves.Store, collector *metrics.Collector, slot string, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := saveNow(ctx, engine, store, slot)
			if collector != nil {
				collector.ObserveSave("autosave", err)
			}
			if err != nil {
				logger.Error("autosave failed", "slot", slot, "err", err)
				continue
			}
			logger.Debug("autosave complete", "slot", slot)
		}
	}
}

func saveNow(ctx context.Context, engine *game.Engine, store saves.Store, slot string) error {
	blob, err := engine.Export()
	if err != nil {
		return err
	}
	return store.Save(ctx, slot, blob)
}
