// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carematch-workers/internal/common/camunda"
	"carematch-workers/internal/common/config"
	"carematch-workers/internal/common/database"
	"carematch-workers/internal/common/logger"
	"carematch-workers/internal/common/observability"

	bmr "carematch-workers/internal/workers/matching/build-match-response"
	cms "carematch-workers/internal/workers/matching/calculate-match-score"
	nm "carematch-workers/internal/workers/matching/notify-match"
	rc "carematch-workers/internal/workers/matching/rank-candidates"
	sp "carematch-workers/internal/workers/matching/search-providers"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebeClient.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Register Matching Workers ---
	var workers []*camunda.CamundaWorker

	snapshotTTL := time.Duration(cfg.Matching.SnapshotCacheTTL) * time.Second

	if wcfg := cfg.Workers[cms.TaskType]; wcfg.Enabled {
		handler := cms.NewHandler(
			&cms.Config{
				CacheTTL:           snapshotTTL,
				Timeout:            time.Duration(wcfg.Timeout) * time.Millisecond,
				MinSchedulePercent: cfg.Matching.MinSchedulePercent,
			},
			pg.DB, redis.Client, log,
		)
		workers = append(workers, camunda.NewWorker(zeebeClient.Raw(), cms.TaskType, wcfg.MaxJobsActive, handler, zapLog, obs))
	}

	if wcfg := cfg.Workers[rc.TaskType]; wcfg.Enabled {
		handler := rc.NewHandler(
			&rc.Config{
				CacheTTL:        snapshotTTL,
				Timeout:         time.Duration(wcfg.Timeout) * time.Millisecond,
				DefaultLimit:    cfg.Matching.DefaultRankLimit,
				DefaultMinScore: cfg.Matching.DefaultMinScore,
			},
			pg.DB, redis.Client, log,
		)
		workers = append(workers, camunda.NewWorker(zeebeClient.Raw(), rc.TaskType, wcfg.MaxJobsActive, handler, zapLog, obs))
	}

	if wcfg := cfg.Workers[sp.TaskType]; wcfg.Enabled {
		handler := sp.NewHandler(
			&sp.Config{
				Index:   cfg.Database.Elasticsearch.Index,
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		workers = append(workers, camunda.NewWorker(zeebeClient.Raw(), sp.TaskType, wcfg.MaxJobsActive, handler, zapLog, obs))
	}

	if wcfg := cfg.Workers[nm.TaskType]; wcfg.Enabled {
		handler, err := nm.NewHandler(
			&nm.Config{
				EmailEnabled: cfg.Notifications.EmailEnabled,
				SMSEnabled:   cfg.Notifications.SMSEnabled,
				FromEmail:    cfg.Notifications.SenderEmail,
				AWSRegion:    cfg.Notifications.AWSRegion,
				Timeout:      time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create notify-match handler", zap.Error(err))
		}
		workers = append(workers, camunda.NewWorker(zeebeClient.Raw(), nm.TaskType, wcfg.MaxJobsActive, handler, zapLog, obs))
	}

	if wcfg := cfg.Workers[bmr.TaskType]; wcfg.Enabled {
		handler := bmr.NewHandler(
			&bmr.Config{
				AppVersion: cfg.App.Version,
				Timeout:    time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			log,
		)
		workers = append(workers, camunda.NewWorker(zeebeClient.Raw(), bmr.TaskType, wcfg.MaxJobsActive, handler, zapLog, obs))
	}

	for _, w := range workers {
		w.Start()
	}
	zapLog.Info("All matching workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	zapLog.Info("Worker manager stopped gracefully")
}
