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

	"comanda/cmd"
	"comanda/internal/adapters/out/backend"
	"comanda/internal/adapters/out/postgres/boardrepo"
	"comanda/internal/adapters/out/rabbitmq"
	"comanda/internal/core/ports"
	"comanda/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultSessionTTL = 12 * time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := connectDB(ctx, configs)
	publisher, closePublisher := connectBroker(configs, logger)
	defer closePublisher()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.RefreshAll(ctx); err != nil {
		logger.WarnContext(ctx, "Initial board refresh failed", "error", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Infof("No .env file loaded, using the environment: %v", err)
	}

	return cmd.Config{
		HTTPPort:       envOr("HTTP_PORT", "8080"),
		BackendURL:     os.Getenv("BACKEND_URL"),
		BackendTimeout: durationEnv("BACKEND_TIMEOUT", backend.DefaultTimeout),
		PollInterval:   durationEnv("POLL_INTERVAL", jobs.DefaultPollInterval),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     durationEnv("SESSION_TTL", defaultSessionTTL),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         envOr("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBSslMode:      os.Getenv("DB_SSLMODE"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   envOr("AMQP_EXCHANGE", rabbitmq.DefaultExchange),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Fatalf("%s must be a positive duration, got %q", key, value)
	}
	return d
}

func connectDB(ctx context.Context, configs cmd.Config) *gorm.DB {
	if !configs.UsesDatabase() {
		return nil
	}

	db, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = boardrepo.NewGormBoardRepository(db).Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func connectBroker(configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if configs.AMQPURL == "" {
		return rabbitmq.NoopPublisher{}, func() {}
	}

	publisher, err := rabbitmq.Dial(configs.AMQPURL, configs.AMQPExchange, logger)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	return publisher, func() {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Warn("Failed to close RabbitMQ connection", "error", closeErr)
		}
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	e := app.CreateRouter()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
