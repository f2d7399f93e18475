package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/course-platform/config"
	"github.com/Dhoini/course-platform/internal/api/rest"
	"github.com/Dhoini/course-platform/internal/api/rest/handlers"
	"github.com/Dhoini/course-platform/internal/kafka"
	"github.com/Dhoini/course-platform/internal/metrics"
	"github.com/Dhoini/course-platform/internal/repository/postgres"
	"github.com/Dhoini/course-platform/internal/service"
	"github.com/Dhoini/course-platform/internal/stripe"
	"github.com/Dhoini/course-platform/pkg/logger"
	"github.com/gin-gonic/gin"
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
	if err := cfg.ValidateForServer(); err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(promRegistry, log)
	notificationMetrics := metrics.NewNotificationMetrics(promRegistry, log)

	// Подключение к базе данных и миграции
	dbPool, err := postgres.NewConnection(ctx, cfg.Database.GetDSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := postgres.RunMigrations(cfg.Database.GetURL()); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}

	// Репозитории
	userRepo := postgres.NewPostgresUserRepository(dbPool, log)
	courseRepo := postgres.NewPostgresCourseRepository(dbPool, log)
	lessonRepo := postgres.NewPostgresLessonRepository(dbPool, log)
	subscriptionRepo := postgres.NewPostgresSubscriptionRepository(dbPool, log)
	paymentRepo := postgres.NewPostgresPaymentRepository(dbPool, log)

	// Очередь задач уведомлений
	taskProducer, err := kafka.NewTaskProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic, log)
	if err != nil {
		log.Fatal("Failed to create task producer: %v", err)
	}
	defer taskProducer.Close()

	// События платежей
	paymentProducer, err := kafka.NewPaymentProducer(cfg.Kafka.Brokers, cfg.Kafka.PaymentEventsTopic, log)
	if err != nil {
		log.Fatal("Failed to create payment producer: %v", err)
	}
	defer paymentProducer.Close()

	// Платежный шлюз
	stripeTimeout := time.Duration(cfg.Stripe.RequestTimeout) * time.Second
	stripeClient := stripe.NewClient(cfg.Stripe.APIKey, stripeTimeout, log)

	// Сервисы
	notifier := service.NewUpdateNotifier(subscriptionRepo, userRepo, taskProducer, notificationMetrics, log)
	userService := service.NewUserService(userRepo, courseRepo, lessonRepo, subscriptionRepo, paymentRepo, log)
	courseService := service.NewCourseService(courseRepo, lessonRepo, subscriptionRepo, paymentRepo, userRepo, notifier, log)
	lessonService := service.NewLessonService(lessonRepo, courseRepo, paymentRepo, userRepo, notifier, log)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, courseRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, courseRepo, lessonRepo, stripeClient, paymentProducer, paymentMetrics, cfg, log)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := rest.SetupRouter(rest.Handlers{
		Users:         handlers.NewUserHandler(userService, log),
		Courses:       handlers.NewCourseHandler(courseService, log),
		Lessons:       handlers.NewLessonHandler(lessonService, log),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptionService, log),
		Payments:      handlers.NewPaymentHandler(paymentService, log),
	}, promRegistry, log)

	server := rest.NewServer(router, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
