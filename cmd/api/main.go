package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qqenglishbr/lp-qqenglish/cmd/mainconfig"
	"github.com/qqenglishbr/lp-qqenglish/internal/app/bootstrap"
	appconfig "github.com/qqenglishbr/lp-qqenglish/internal/config"
	"github.com/qqenglishbr/lp-qqenglish/internal/leadqueue"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead capture API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"site", cfg.SiteName,
	)

	ctx := context.Background()
	var sqsAPI leadqueue.SendMessageAPI
	sqsClient, err := mainconfig.NewSQSClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config; SQS destination disabled", "error", err)
	} else if sqsClient != nil {
		sqsAPI = sqsClient
	}

	app := bootstrap.BuildApp(ctx, cfg, sqsAPI, nil, logger)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close destinations", "error", err)
		}
	}()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutting down server...")

	// In-flight submissions finish their deliveries before exit.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
