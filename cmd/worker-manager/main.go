// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smartmatch-workers/internal/common/camunda"
	"smartmatch-workers/internal/common/config"
	"smartmatch-workers/internal/common/database"
	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/observability"
	"smartmatch-workers/internal/smartmatch/configstore"
	"smartmatch-workers/internal/smartmatch/profile"
	"smartmatch-workers/internal/smartmatch/profilecache"
	"smartmatch-workers/internal/smartmatch/ranking"
	"smartmatch-workers/internal/smartmatch/recompute"
	"smartmatch-workers/internal/smartmatch/store"
	"smartmatch-workers/pkg/registry"

	rl "smartmatch-workers/internal/workers/smartmatch/rank-listings"
	rp "smartmatch-workers/internal/workers/smartmatch/recompute-profiles"
	umc "smartmatch-workers/internal/workers/smartmatch/update-match-config"
	vi "smartmatch-workers/internal/workers/smartmatch/vendor-insights"
)

const (
	serviceName          = "smartmatch-workers"
	activityRegistryPath = "configs/activity-registry.json"
)

var storeRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.Build(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: serviceName,
		Version: cfg.App.Version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...")

	obs, err := observability.New(observability.TracingOptions{
		Enabled:     cfg.Observability.Tracing.Enabled,
		Endpoint:    cfg.Observability.Tracing.JaegerEndpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = camunda.RetryWithBackoff(ctx, storeRetry, log, "postgres connection", func(ctx context.Context) error {
		var err error
		pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
		return err
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = camunda.RetryWithBackoff(ctx, storeRetry, log, "redis connection", func(ctx context.Context) error {
		var err error
		rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
		return err
	})
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Smart match core ---
	marketplace := store.NewPostgres(pg.DB)
	matchConfig := configstore.New(store.NewConfigSource(pg.DB), log)

	var profileDocs store.DocumentStore = marketplace
	if cfg.Smartmatch.RedisMirror {
		backfill := time.Duration(matchConfig.Get(ctx).ProfileCacheTTLMs) * time.Millisecond
		profileDocs = store.NewTiered(marketplace, store.NewRedisProfiles(rdb.Client), backfill, log)
	}

	builder := profile.NewBuilder(marketplace, profile.Options{
		Lookback:  time.Duration(cfg.Smartmatch.LookbackDays) * 24 * time.Hour,
		MaxOrders: cfg.Smartmatch.MaxOrders,
	})
	profiles := profilecache.New(profileDocs, matchConfig, log)
	ranker := ranking.NewRanker(matchConfig, profiles, store.NewRedisScoreCache(rdb.Client), log)
	recomputeJob := recompute.NewJob(builder, profiles, marketplace, cfg.Smartmatch.RecomputePageSize, log)

	runner := recompute.NewRunner(recomputeJob, config.GetDuration(cfg.Smartmatch.RecomputeInterval), log)
	runner.Start(ctx)

	// --- Register workers ---
	workers := camunda.NewRegistry(zeebe.GetClient(), log)

	rankCfg := config.GetWorkerConfig(cfg, rl.TaskType)
	workers.Start(rl.TaskType, rankCfg,
		rl.NewHandler(rl.FromWorkerConfig(rankCfg), ranker, log).Handle)

	insightsCfg := config.GetWorkerConfig(cfg, vi.TaskType)
	workers.Start(vi.TaskType, insightsCfg,
		vi.NewHandler(vi.FromWorkerConfig(insightsCfg), profiles, builder, log).Handle)

	recomputeCfg := config.GetWorkerConfig(cfg, rp.TaskType)
	workers.Start(rp.TaskType, recomputeCfg,
		rp.NewHandler(rp.FromWorkerConfig(recomputeCfg), recomputeJob, log).Handle)

	updateCfg := config.GetWorkerConfig(cfg, umc.TaskType)
	workers.Start(umc.TaskType, updateCfg,
		umc.NewHandler(umc.FromWorkerConfig(updateCfg), matchConfig, log).Handle)

	zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.TaskTypes()))
	checkActivityRegistry(workers.TaskTypes(), zapLog)

	// --- Health & Metrics Server ---
	addr := fmt.Sprintf(":%d", cfg.Observability.MetricsPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServerMux(pg, rdb, zeebe),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner.Stop()
	workers.Close(20 * time.Second)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkActivityRegistry warns about started task types the catalog does not describe.
func checkActivityRegistry(taskTypes []string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(activityRegistryPath)
	if err != nil {
		log.Warn("activity registry not loaded", zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.Error(err))
		return
	}
	if missing := reg.Missing(taskTypes); len(missing) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
	}
}
