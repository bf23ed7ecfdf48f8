package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/scribe/cmd"
	"github.com/nulzo/scribe/internal/analytics"
	"github.com/nulzo/scribe/internal/cli"
	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/platform/logger"
	"github.com/nulzo/scribe/internal/platform/metrics"
	platformotel "github.com/nulzo/scribe/internal/platform/otel"
	"github.com/nulzo/scribe/internal/server"
	"github.com/nulzo/scribe/internal/store"
	"github.com/nulzo/scribe/internal/store/sqlite"
	"github.com/nulzo/scribe/internal/writer"
	"go.uber.org/zap"

	// Import providers to trigger init() registration
	_ "github.com/nulzo/scribe/internal/llm/huggingface"
	_ "github.com/nulzo/scribe/internal/llm/mock"
	_ "github.com/nulzo/scribe/internal/llm/ollama"
	_ "github.com/nulzo/scribe/internal/llm/openrouter"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// logger is not configured yet
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logger.Initialize(logCfg)
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := platformotel.InitTracer(ctx, cfg.Tracing, cmd.AppVersion, log, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	var (
		opts       []writer.Option
		serverOpts = []server.Option{server.WithVersion(cmd.AppVersion)}
		storage    string
	)

	if cfg.Metrics.Enabled {
		m := metrics.New()
		opts = append(opts, writer.WithRecorder(m))
		serverOpts = append(serverOpts, server.WithMetrics(m))
	}

	if cfg.Database.Enabled {
		repo, err := sqlite.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			log.Fatal("Failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
		}
		defer closeRepo(log, repo)

		ingestor := analytics.NewIngestor(log, repo)
		// outlives the signal context so requests drained by Run are still persisted
		ingestor.Start(context.Background())
		defer ingestor.Stop()

		opts = append(opts, writer.WithRecorder(ingestor))
		serverOpts = append(serverOpts, server.WithAnalytics(analytics.NewService(repo)))
		storage = cfg.Database.Path
	}

	svc := writer.NewService(cfg.AI, log, opts...)
	log.Info("AI provider resolved",
		zap.String("configured", svc.ConfiguredProvider()),
		zap.String("provider", svc.Provider()),
		zap.String("model", svc.Model()),
		zap.Bool("mock_mode", svc.MockMode()),
	)

	if cfg.Server.CheckUpdates {
		go cmd.CheckForUpdates(ctx, log, cmd.ReleasesURL)
	}

	cli.PrintBanner(os.Stdout, cli.BannerInfo{
		Version:  cmd.AppVersion,
		Addr:     ":" + cfg.Server.Port,
		Provider: svc.Provider(),
		Model:    svc.Model(),
		MockMode: svc.MockMode(),
		Storage:  storage,
	})

	srv := server.New(cfg, log, svc, serverOpts...)
	if err := srv.Run(ctx); err != nil {
		log.Error("Server failed", zap.Error(err))
	}
}

func closeRepo(log *zap.Logger, repo store.Repository) {
	if err := repo.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}
}
