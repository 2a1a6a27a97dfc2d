// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recommender-workers/internal/common/camunda"
	"recommender-workers/internal/common/config"
	"recommender-workers/internal/common/database"
	"recommender-workers/internal/common/logger"
	"recommender-workers/internal/common/observability"
	"recommender-workers/internal/inference"
	"recommender-workers/internal/rulestore"

	gr "recommender-workers/internal/workers/recommendation/generate-recommendations"
	rf "recommender-workers/internal/workers/recommendation/record-feedback"
	sr "recommender-workers/internal/workers/recommendation/save-recommendations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"ruleSource":  cfg.Engine.RuleSource,
	})

	obs := observability.New(cfg.App.Name, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.Connect(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer func() { _ = zeebe.Close() }()
	log.Info("zeebe client connected", nil)

	sqlClient, err := connectDatabase(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("database connection failed after retries", zap.Error(err))
	}
	defer func() { _ = sqlClient.Close() }()

	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		redisClient, err = connectRedis(ctx, cfg, log)
		if err != nil {
			zapLog.Fatal("redis connection failed after retries", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
	}

	rdb := redisClientOrNil(redisClient)
	store, err := rulestore.New(cfg.Engine, sqlClient.DB, rdb, log)
	if err != nil {
		zapLog.Fatal("rule store setup failed", zap.Error(err))
	}

	engine := inference.NewEngine(&inference.Config{MaxRecommendations: cfg.Engine.MaxRecommendations}, store, log)

	workers := registerWorkers(cfg, zeebe, engine, sqlClient, obs, log)
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newHealthMux(readinessChecks(zeebe, sqlClient, redisClient)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped", nil)
}

func registerWorkers(
	cfg *config.Config,
	zeebe *camunda.Client,
	engine *inference.Engine,
	sqlClient *database.SQLClient,
	obs *observability.Observability,
	log logger.Logger,
) []*camunda.Worker {
	var workers []*camunda.Worker

	if gcfg := gr.LoadConfig(cfg); gcfg.Enabled {
		handler := gr.NewHandler(gcfg, engine, obs, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      gr.TaskType,
			MaxJobsActive: gcfg.MaxJobsActive,
			Timeout:       gcfg.Timeout,
		}, handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": gr.TaskType})
	}

	if scfg := sr.LoadConfig(cfg); scfg.Enabled {
		handler := sr.NewHandler(scfg, sqlClient.DB, obs, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      sr.TaskType,
			MaxJobsActive: scfg.MaxJobsActive,
			Timeout:       scfg.Timeout,
		}, handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": sr.TaskType})
	}

	if fcfg := rf.LoadConfig(cfg); fcfg.Enabled {
		handler := rf.NewHandler(fcfg, sqlClient.DB, obs, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      rf.TaskType,
			MaxJobsActive: fcfg.MaxJobsActive,
			Timeout:       fcfg.Timeout,
		}, handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": rf.TaskType})
	}

	return workers
}
