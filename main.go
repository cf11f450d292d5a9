package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/activities"
	"github.com/omnix-ai/orchestrator/internal/cache"
	"github.com/omnix-ai/orchestrator/internal/config"
	"github.com/omnix-ai/orchestrator/internal/db"
	"github.com/omnix-ai/orchestrator/internal/tools"
	"github.com/omnix-ai/orchestrator/internal/tracing"
	"github.com/omnix-ai/orchestrator/internal/workflows"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if err := tracing.Initialize(cfg.Tracing, logger); err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Prometheus endpoint, served on its own mux.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Service.MetricsPort),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		logger.Info("Metrics server listening", zap.Int("port", cfg.Service.MetricsPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// Keyword patterns hot-reload. Missing file keeps the built-in defaults.
	watcher, err := config.NewPatternWatcher(cfg.Patterns.Path, logger)
	if err != nil {
		logger.Warn("Pattern watcher not started", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	var pages *cache.PageCache
	if cfg.Redis.Enabled {
		pages, err = cache.NewPageCache(cfg.Redis.Addr, cfg.Redis.PageTTL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Page cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var store *db.Store
	if cfg.Database.Enabled {
		store, err = db.NewStore(cfg.Database.Config, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		defer store.Close()
	}

	firecrawl := tools.NewFirecrawlClient(cfg.Research.Firecrawl, logger)
	mailer := tools.NewSMTPMailer(cfg.Email, logger)

	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer tc.Close()

	acts := activities.NewActivities(firecrawl, firecrawl, mailer, pages, store, logger)

	w := worker.New(tc, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.ResearchTaskWorkflow)
	w.RegisterActivityWithOptions(acts.SearchWeb, activity.RegisterOptions{Name: activities.SearchWebActivity})
	w.RegisterActivityWithOptions(acts.FetchPage, activity.RegisterOptions{Name: activities.FetchPageActivity})
	w.RegisterActivityWithOptions(acts.DeliverReport, activity.RegisterOptions{Name: activities.DeliverReportActivity})
	w.RegisterActivityWithOptions(acts.PersistExecution, activity.RegisterOptions{Name: activities.PersistExecutionActivity})

	logger.Info("Worker starting",
		zap.String("task_queue", cfg.Temporal.TaskQueue),
		zap.String("temporal", cfg.Temporal.HostPort),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("Worker stopped", zap.Error(err))
	}
}
