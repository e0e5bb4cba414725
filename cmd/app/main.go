package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderentry/cmd"
	"orderentry/internal/adapters/out/postgres"
	"orderentry/internal/adapters/out/rabbitmq"
	"orderentry/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(configs, logger)
	publisher, closePublisher := openPublisher(configs, logger)
	defer closePublisher()

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Info("no .env file loaded, using the process environment")
	}

	return cmd.Config{
		HTTPPort:             os.Getenv("HTTP_PORT"),
		Storage:              os.Getenv("STORAGE"),
		DBHost:               os.Getenv("DB_HOST"),
		DBPort:               os.Getenv("DB_PORT"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBName:               os.Getenv("DB_NAME"),
		DBSslMode:            os.Getenv("DB_SSLMODE"),
		OrderNumberPrefix:    os.Getenv("ORDER_NUMBER_PREFIX"),
		DeploymentLabel:      os.Getenv("DEPLOYMENT_LABEL"),
		AMQPURL:              os.Getenv("AMQP_URL"),
		AMQPExchange:         os.Getenv("AMQP_EXCHANGE"),
		ActiveOrdersSchedule: os.Getenv("ACTIVE_ORDERS_SCHEDULE"),
	}
}

// openDatabase returns nil for in-memory storage.
func openDatabase(configs cmd.Config, logger *slog.Logger) *gorm.DB {
	if configs.Storage != cmd.StoragePostgres {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return nil
	}

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	return gormDB
}

// openPublisher returns a nil publisher when AMQP_URL is unset.
func openPublisher(configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if configs.AMQPURL == "" {
		logger.Info("AMQP_URL is not set, lifecycle events are not published")
		return nil, func() {}
	}

	conn, err := rabbitmq.Dial(configs.AMQPURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return rabbitmq.NewPublisher(conn, configs.AMQPExchange), func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close RabbitMQ connection", "error", closeErr)
		}
	}
}

func startWebServer(app cmd.CompositionRoot, port string, logger *slog.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           app.CreateRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
