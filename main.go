package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"userhub/internal/config"
	"userhub/internal/database"
	"userhub/internal/logging"
	"userhub/internal/services"
	"userhub/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		bootLog := logging.New("", os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logging.New(cfg.LogLevel, os.Stdout)

	// --- Database ---
	db, err := database.Open(database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: log})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient

		eventLog := log.With().Str("component", "user-events").Logger()
		err = mqClient.ConsumeUserEvents(auditUserEvent(eventLog))
		if err != nil {
			log.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	} else {
		log.Info().Msg("RABBITMQ_URL is empty, user events are disabled")
	}

	app := newApp(cfg, db, publisher, log)

	// --- Start HTTP Server ---
	log.Info().Str("port", cfg.AppPort).Msg("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := shutdown(app, db, log); err != nil {
		log.Warn().Msg("server stopped with errors")
		return
	}
	log.Info().Msg("server gracefully stopped")
}
