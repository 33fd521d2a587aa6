package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/datalens-app/datalens/internal/config"
	"github.com/datalens-app/datalens/internal/core"
	"github.com/datalens-app/datalens/internal/logging"
	"github.com/datalens-app/datalens/internal/session"
	_ "github.com/datalens-app/datalens/internal/transform" // Register all transforms
	"github.com/datalens-app/datalens/internal/web"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var (
		host     string
		port     int
		logLevel string
		envFile  string
	)

	rootCmd := &cobra.Command{
		Use:   "datalens",
		Short: "HTTP service for interactive CSV cleaning and analysis",
		Long: `DataLens Server

Serves a JSON API for uploading CSV files, applying preprocessing
transforms (missing values, type conversion, discretization, scaling,
encoding, train/test split) to an in-memory working copy, and
exporting the cleaned result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(host, port, logLevel, envFile)
		},
	}

	rootCmd.Flags().StringVar(&host, "host", "", "bind address (overrides SERVER_HOST)")
	rootCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides SERVER_PORT)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "path to env file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(host string, port int, logLevel, envFile string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(envFile); err != nil {
		slog.Info("no env file found, using environment variables", "path", envFile)
	} else {
		slog.Info("loaded env file (overwriting existing env vars)", "path", envFile)
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over environment
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Session store owns the working datasets and sweeps expired ones
	store := session.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval)

	service := core.NewService(store, core.Limits{
		MaxRows:    cfg.Upload.MaxRows,
		MaxColumns: cfg.Upload.MaxColumns,
	})

	slog.Info("transforms registered", "count", len(service.Catalog()))

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
	return nil
}
