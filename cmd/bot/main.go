package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"momentum_go/internal/app"
	"momentum_go/internal/execution"
	"momentum_go/internal/infra"
	"momentum_go/internal/infra/binance"
	"momentum_go/internal/scheduler"
	"momentum_go/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to yaml config")
		once       = flag.Bool("once", false, "run a single cycle and exit")
	)
	flag.Parse()

	// 1. Configuration (fatal on any validation error)
	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		slog.Error("❌ Config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Logger (stdout + daily file)
	log, logCloser, err := infra.NewLogger(cfg)
	if err != nil {
		slog.Error("❌ Logger init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info("momentum bot starting",
		"mode", cfg.Trading.Mode, "pairs", len(cfg.Trading.Pairs), "interval", cfg.Trading.Interval)

	// 3. Audit store (falls back to noop when sqlite is unconfigured or broken)
	var rec storage.Recorder
	if cfg.Storage.SQLitePath != "" {
		store, err := storage.NewStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Warn("sqlite store init failed, audit trail is log-only", "err", err)
			rec = storage.NewNoopRecorder()
		} else {
			rec = store
		}
	} else {
		rec = storage.NewNoopRecorder()
	}
	defer rec.Close()

	// 4. Exchange client (Gateway)
	client, err := binance.NewClient(binance.ClientConfig{
		BaseURL:   cfg.API.RestURL,
		AccessKey: cfg.API.AccessKey,
		SecretKey: cfg.API.SecretKey,
	}, log)
	if err != nil {
		log.Error("❌ Exchange client init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer client.Close()

	// 5. Execution layer for the configured mode
	exec, err := execution.NewExecution(cfg.Trading.Mode, client, log, rec)
	if err != nil {
		log.Error("❌ Execution init failed", slog.Any("error", err))
		os.Exit(1)
	}

	liq := execution.NewLiquidator(exec, log)
	runner := app.NewRunner(cfg, client, client, exec, liq, rec, log)

	// 6. Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := runner.Run(ctx); err != nil {
			log.Error("cycle aborted", "err", err)
			os.Exit(1)
		}
		return
	}

	// 7. Cron schedule
	sched := scheduler.New(runner, log)
	if err := sched.Register(ctx, cfg.Schedule.Cron); err != nil {
		log.Error("❌ Schedule registration failed", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.Schedule.RunOnStart {
		sched.RunNow(ctx)
	}
	sched.Start()

	log.Info("✅ momentum bot operational", "cron", cfg.Schedule.Cron)

	<-ctx.Done()
	sched.Stop()
	log.Info("👋 shutting down gracefully")
}
