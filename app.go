package main

import (
	"errors"
	"fmt"
	"time"

	"userhub/internal/config"
	"userhub/internal/database"
	"userhub/internal/handlers"
	"userhub/internal/repositories"
	"userhub/internal/services"
	"userhub/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

// newApp wires repositories, services and handlers onto a Fiber app.
// publisher may be nil, which disables user events.
func newApp(cfg config.Config, db *gorm.DB, publisher services.EventPublisher, log zerolog.Logger) *fiber.App {
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(
		database.NewGormPool(db),
		repositories.NewGORMUserProvider(db),
		repositories.NewGORMUserDao(),
		tokens,
		publisher,
		log,
	).WithDBTimeout(cfg.DBTimeout)
	userHandler := handlers.NewUserHandler(userService, tokens, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(logger.New()) // Request logger

	userHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "unavailable"
		}
		events := "disabled"
		if publisher != nil {
			events = "enabled"
		}

		status := fiber.StatusOK
		health := "healthy"
		if dbStatus != "connected" {
			status = fiber.StatusServiceUnavailable
			health = "unhealthy"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"events":   events,
		})
	})

	return app
}

// auditUserEvent writes one audit line per user event delivery. Malformed
// bodies are logged and acked, since requeueing them would loop forever.
func auditUserEvent(log zerolog.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		event, err := rabbitmq.DecodeUserEvent(msg)
		if err != nil {
			log.Error().Err(err).Str("messageId", msg.MessageId).Msg("dropping malformed user event")
			return nil
		}
		log.Info().
			Str("messageId", msg.MessageId).
			Str("type", string(event.Type)).
			Int64("userIdx", event.UserIdx).
			Str("email", event.Email).
			Time("occurredAt", event.OccurredAt).
			Msg("audit user event")
		return nil
	}
}

// shutdown stops the HTTP server and closes the database pool.
func shutdown(app *fiber.App, db *gorm.DB, log zerolog.Logger) error {
	var errs []error
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
		errs = append(errs, fmt.Errorf("failed to shut down server: %w", err))
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		log.Error().Err(err).Msg("error closing database")
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	return errors.Join(errs...)
}
