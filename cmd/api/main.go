package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outblog-shopify-app/internal/bootstrap"
	"outblog-shopify-app/internal/config"

	"github.com/rs/zerolog"
)

// @title Outblog Shopify App API
// @version 1.0
// @description Syncs Outblog posts into Shopify blog articles.
// @BasePath /

func main() {
	// Load configuration (.env is optional)
	cfg, err := config.Load()
	if err != nil {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := bootstrap.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	app, err := bootstrap.New(startCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to initialize application")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("driver", cfg.StorageDriver).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down server")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("Server error")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := app.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to close resources")
	}
	logger.Info().Msg("Server stopped")
}
