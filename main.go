package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarsync/internal/config"
	"scholarsync/internal/database"
	"scholarsync/internal/logger"
	"scholarsync/internal/server"
	"scholarsync/internal/services"
	"scholarsync/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	lgr := logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// --- Database ---
	db, err := database.Open(cfg, lgr)
	if err != nil {
		lgr.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		lgr.Fatal().Err(err).Msg("failed to migrate database")
	}
	lgr.Info().Str("driver", cfg.DatabaseDriver).Msg("database connected")

	// --- Initialize RabbitMQ Client ---
	var publisher services.StudentEventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			lgr.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		publisher = mqClient
	}

	app := server.NewApp(server.Options{
		Config:    cfg,
		DB:        db,
		Logger:    lgr,
		Publisher: publisher,
	})

	// --- Start HTTP Server ---
	addr := cfg.ListenAddr()
	go func() {
		lgr.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("starting server")
		if err := app.Listen(addr); err != nil {
			lgr.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lgr.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		lgr.Error().Err(err).Msg("error during server shutdown")
	}

	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			lgr.Error().Err(err).Msg("error closing RabbitMQ client")
		}
	}
	if err := database.Close(db); err != nil {
		lgr.Error().Err(err).Msg("error closing database")
	}
	lgr.Info().Msg("server gracefully stopped")
}
