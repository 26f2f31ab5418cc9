// Background worker entry point.  The worker consumes extraction requests
// from Kafka, fetches the archived PDF from MinIO and runs it through the same
// ingest path as a direct upload.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/application/extraction"
	"github.com/turtacn/fra-monitor/internal/config"
	redisclient "github.com/turtacn/fra-monitor/internal/infrastructure/database/redis"
	"github.com/turtacn/fra-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/interfaces/http/handlers"
)

const (
	defaultHealthPort = 8081
	lockTTL           = 5 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: FRA_* environment)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and /metrics")
	flag.Parse()

	if err := run(*configPath, *healthPort); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort int) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled || !cfg.MinIO.Enabled {
		return fmt.Errorf("the worker needs kafka.enabled and minio.enabled")
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(context.Background()); err != nil {
			logger.Warn("shutdown cleanup failed", logging.Err(err))
		}
	}()

	topics, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger.Named("topics"))
	if err != nil {
		return err
	}
	if err := topics.EnsureTopics(ctx, kafka.DefaultTopics()); err != nil {
		logger.Warn("could not ensure topics", logging.Err(err))
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{cfg.Kafka.ExtractionTopic},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		// A failed extraction is not retried; it goes to the dead letter topic.
		RetryConfig: kafka.RetryConfig{DeadLetterTopic: kafka.TopicDeadLetter},
	}, logger.Named("consumer"))
	if err != nil {
		return err
	}
	defer consumer.Close()

	jobs := extraction.NewJobHandler(c.Extraction, c.Archive, lockFactory(c.Redis, logger), logger.Named("jobs"))
	consumer.Subscribe(cfg.Kafka.ExtractionTopic, jobs.Handle)
	if c.Collector != nil {
		c.Collector.RegisterCounterFunc("worker_messages_processed_total", "Extraction messages handled successfully.",
			func() float64 { return float64(consumer.Processed()) })
		c.Collector.RegisterCounterFunc("worker_messages_failed_total", "Extraction messages sent to the dead letter topic.",
			func() float64 { return float64(consumer.Failed()) })
	}

	health := startHealthServer(c, healthPort, logger)

	logger.Info("starting FRA extraction worker",
		logging.String("version", version),
		logging.String("topic", cfg.Kafka.ExtractionTopic),
		logging.String("group", cfg.Kafka.GroupID),
		logging.Int("health_port", healthPort),
	)
	if err := consumer.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	logger.Info("shutting down worker",
		logging.Int64("processed", consumer.Processed()),
		logging.Int64("failed", consumer.Failed()),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := health.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server shutdown error", logging.Err(err))
	}
	return nil
}

// lockFactory leases one Redis mutex per archived object.  Without Redis
// every job runs unlocked.
func lockFactory(client *redisclient.Client, logger logging.Logger) extraction.LockFactory {
	if client == nil {
		logger.Warn("redis is not configured; extraction jobs run without locks")
		return nil
	}
	return func(name string) extraction.Locker {
		return redisclient.NewMutex(client, "extract:"+name, lockTTL, logger)
	}
}

func startHealthServer(c *app.Container, port int, logger logging.Logger) *http.Server {
	health := handlers.NewHealthHandler(version, c.HealthCheckers()...).WithMetrics(c.AppMetrics)

	r := chi.NewRouter()
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)
	r.Get("/healthz/detail", health.Detailed)
	if c.Collector != nil {
		r.Handle("/metrics", c.Collector.Handler())
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}

//Personal.AI order the ending
