package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dhoini/course-platform/config"
	"github.com/Dhoini/course-platform/internal/kafka"
	"github.com/Dhoini/course-platform/internal/mail"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/Dhoini/course-platform/internal/service"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var log *logger.Logger

func init() {
	// .env файл опционален
	_ = godotenv.Load()

	logLevel := logger.INFO
	if os.Getenv("DEBUG") == "true" {
		logLevel = logger.DEBUG
	}
	log = logger.New(logLevel)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	promRegistry := prometheus.NewRegistry()
	notificationMetrics := metrics.NewNotificationMetrics(promRegistry, log)

	sender := mail.NewSender(cfg.SMTP, log)
	if !cfg.SMTP.Configured() {
		log.Warn("SMTP credentials are not set, notifications will be skipped")
	}

	notificationService := service.NewNotificationService(sender, notificationMetrics, log)

	consumer := kafka.NewTaskConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.NotificationsTopic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MaxAttempts,
		log,
	)
	defer consumer.Close()

	// Остановка по сигналу
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Worker is shutting down...")
		cancel()
	}()

	log.Info("Worker started, consuming topic %s", cfg.Kafka.NotificationsTopic)

	if err := consumer.Run(ctx, notificationService.Handler()); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Consumer error: %v", err)
	}

	log.Info("Worker stopped gracefully")
}
