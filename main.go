package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"erp/internal/app"
	"erp/internal/config"
	"erp/internal/database"
	"erp/internal/services"
	"erp/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := app.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logger")
	}

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// --- RabbitMQ ---
	// Orders are still accepted when the broker is down; events are simply not published.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQEnabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, order events disabled")
		} else {
			publisher = mqClient
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
				log.Error().Err(err).Msg("Failed to start RabbitMQ consumer")
			}
		}
	}

	svc := app.NewServices(cfg, db, publisher)
	if cfg.SeedDemoData {
		if err := app.Seed(context.Background(), svc); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	server := app.New(db, svc)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.AppPort).Msg("Starting server")
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing RabbitMQ connection")
		}
	}
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
	log.Info().Msg("Server gracefully stopped")
}
