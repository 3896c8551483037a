package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domoslabs/underwriter/api/routes"
	"github.com/domoslabs/underwriter/internal/audit"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/extract"
	"github.com/domoslabs/underwriter/internal/intake"
	"github.com/domoslabs/underwriter/internal/pipeline"
	"github.com/domoslabs/underwriter/internal/policy"
	"github.com/domoslabs/underwriter/internal/runner"
	"github.com/domoslabs/underwriter/pkg/config"
	"github.com/domoslabs/underwriter/pkg/db"
	"github.com/domoslabs/underwriter/pkg/logger"
	"github.com/domoslabs/underwriter/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap deal index database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing deal index database", err)
		}
	}()

	index, err := dealstore.NewIndex(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap deal index", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	store := dealstore.NewStore()
	locker := dealstore.NewPathLocker(cfg.Audit.LockWait)
	auditLogger := audit.NewLogger(locker, cfg.Audit.SaveMaxAttempts, logg)

	pipelineRunner := runner.New(runner.Options{
		Builder:        intake.NewBuilder(cfg.Storage.ProcessedDealsDir, extract.NewExtractor(logg), store, index, logg),
		Store:          store,
		Index:          index,
		AuditLogger:    auditLogger,
		Underwriting:   policy.NewUnderwritingPolicy(),
		PipelinePolicy: policy.NewPipelinePolicy(),
		Mover:          pipeline.NewMover(cfg.Storage.PipelineDir, store, index, pipelineMetrics, logg),
		Scanner:        pipeline.NewScanner(cfg.Storage.PipelineDir),
		Metrics:        pipelineMetrics,
		Log:            logg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.API.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, index, auditLogger, pipelineRunner, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
