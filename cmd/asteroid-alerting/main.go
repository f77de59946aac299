// Package main runs the asteroid-alerting service: it fetches upcoming close approaches
// from NeoWs, classifies the hazardous ones and publishes collision events to Kafka.
// Runs are started through the administrative HTTP trigger.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asteroid-alerting/internal/api"
	"asteroid-alerting/internal/config"
	"asteroid-alerting/internal/neo"
	"asteroid-alerting/internal/orchestrator"
	"asteroid-alerting/internal/producer"
	"asteroid-alerting/pkg/metrics"
	"asteroid-alerting/pkg/shared"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Parse command-line flags
	cfg := &config.AlertingConfig{}
	flag.StringVar(&cfg.HTTPAddr, "http-addr", shared.GetEnvOrDefault("HTTP_ADDR", ":8080"), "HTTP listen address for the trigger API")
	flag.StringVar(&cfg.KafkaBrokers, "kafka-brokers", shared.GetEnvOrDefault("KAFKA_BROKERS", "localhost:9092"), "Kafka broker addresses (comma-separated)")
	flag.StringVar(&cfg.AlertsTopic, "alerts-topic", shared.GetEnvOrDefault("ALERTS_TOPIC", "asteroid-alerts"), "Kafka topic for collision events")
	flag.BoolVar(&cfg.MockPublisher, "mock-publisher", os.Getenv("MOCK_PUBLISHER") == "true", "Log events instead of publishing to Kafka")
	flag.StringVar(&cfg.NeoBaseURL, "neo-base-url", shared.GetEnvOrDefault("NEO_BASE_URL", neo.DefaultBaseURL), "NeoWs API base URL")
	flag.StringVar(&cfg.NeoAPIKey, "neo-api-key", shared.GetEnvOrDefault("NEO_API_KEY", "DEMO_KEY"), "NeoWs API key")
	flag.DurationVar(&cfg.NeoTimeout, "neo-timeout", shared.GetEnvDurationOrDefault("NEO_TIMEOUT", neo.DefaultTimeout), "Timeout for one NeoWs request")
	flag.IntVar(&cfg.WindowDays, "window-days", shared.GetEnvIntOrDefault("WINDOW_DAYS", orchestrator.DefaultWindowDays), "Days past today covered by a run")
	flag.DurationVar(&cfg.PublishTimeout, "publish-timeout", shared.GetEnvDurationOrDefault("PUBLISH_TIMEOUT", producer.DefaultPublishTimeout), "Timeout for one event publish")
	flag.DurationVar(&cfg.RunTimeout, "run-timeout", shared.GetEnvDurationOrDefault("RUN_TIMEOUT", 2*time.Minute), "Timeout for one alerting run")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for metrics snapshots (optional)")
	flag.Parse()

	shared.SetupLogging()

	slog.Info("Starting asteroid-alerting service",
		"http_addr", cfg.HTTPAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"alerts_topic", cfg.AlertsTopic,
		"mock_publisher", cfg.MockPublisher,
		"neo_base_url", cfg.NeoBaseURL,
		"window_days", cfg.WindowDays,
	)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	collector := metrics.StartCollector(ctx, metrics.ServiceAlerting, cfg.RedisAddr)
	defer collector.Stop()

	var publisher producer.EventPublisher
	if cfg.MockPublisher {
		publisher = producer.NewMock(cfg.AlertsTopic)
	} else {
		p, err := producer.New(cfg.KafkaBrokers, cfg.AlertsTopic, cfg.PublishTimeout)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			slog.Info("Tip: Start Kafka or run with -mock-publisher")
			os.Exit(1)
		}
		publisher = p
	}
	defer publisher.Close()

	client := neo.NewClient(neo.Config{
		BaseURL: cfg.NeoBaseURL,
		APIKey:  cfg.NeoAPIKey,
		Timeout: cfg.NeoTimeout,
	})

	orch := orchestrator.New(client, publisher,
		orchestrator.WithMetrics(collector),
		orchestrator.WithWindowDays(cfg.WindowDays),
	)
	rm := api.NewRunManager(orch, cfg.RunTimeout)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(rm),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Trigger API listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			slog.Error("HTTP server failed", "error", err)
			cancel()
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	if err := rm.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Runs still in flight at shutdown", "error", err)
	}

	slog.Info("Asteroid-alerting service stopped")
}
