// Package serve provides the HTTP API server command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/devKoy/csv-version-compare/cmd/application"
	"github.com/devKoy/csv-version-compare/internal/server"
	"github.com/devKoy/csv-version-compare/pkg/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Application is what the serve command needs from the app: the shared
// application plus the configured listen address.
type Application interface {
	application.Application
	HTTPDefaults() (host string, port int)
}

// NewCommand creates the serve command.
func NewCommand(app Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the HTTP API server",
		Long: `Start an HTTP server exposing the comparison engine.

Endpoints (under --prefix unless noted):
  POST /compare        multipart old_file, updated_file, optional style_file
  POST /aggregate      multipart file
  POST /batch-plan     multipart file or total_rows
  GET  /profiles       header profiles
  GET  /health         liveness check (also unprefixed)
  POST /compare-csv/   unprefixed alias of /compare

Responses use a {"data": ..., "error": ...} envelope. Uploads are
processed in memory and never stored.`,
		Example: `  # Start on the configured port (default 8080)
  csvcompare serve

  # Listen on all interfaces, restrict CORS to one front end
  csvcompare serve --host 0.0.0.0 --port 3000 --cors-origins https://portal.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd, app)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), app, cfg)
		},
	}

	cmd.Flags().Int("port", defaults.Port, "Server port (default from config, then HTTP_PORT)")
	cmd.Flags().String("host", defaults.Host, "Bind address (default from config, then HTTP_HOST)")
	cmd.Flags().Bool("cors", defaults.CORSEnabled, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated, default all)")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")
	cmd.Flags().Int64("max-upload", defaults.MaxUploadBytes, "Maximum request body size in bytes")
	cmd.Flags().Int("cache-ttl", int(defaults.CacheTTL/time.Second), "Profile cache TTL in seconds")
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// runServer starts the API server and blocks until ctx is cancelled.
func runServer(ctx context.Context, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Int64("max_upload", cfg.MaxUploadBytes).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return startWithGracefulShutdown(ctx, httpServer, srv, logger)
}

// parseConfig builds the server configuration. Explicit flags win, then
// HTTP_PORT/HTTP_HOST, then the config file.
func parseConfig(cmd *cobra.Command, app Application) (server.Config, error) {
	cfg := server.DefaultConfig()
	flags := cmd.Flags()

	host, port := app.HTTPDefaults()
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		host = envHost
	}
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		p, err := parsePort(envPort)
		if err != nil {
			return cfg, err
		}
		port = p
	}
	if flags.Changed("host") || host == "" {
		host = mustGetString(cmd, "host")
	}
	if flags.Changed("port") || port == 0 {
		port = mustGetInt(cmd, "port")
	}
	if _, err := parsePort(strconv.Itoa(port)); err != nil {
		return cfg, err
	}

	cfg.Host = host
	cfg.Port = port
	cfg.PathPrefix = mustGetString(cmd, "prefix")
	cfg.CORSEnabled = mustGetBool(cmd, "cors")
	cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
	cfg.MaxUploadBytes = mustGetInt64(cmd, "max-upload")
	cfg.CacheTTL = time.Duration(mustGetInt(cmd, "cache-ttl")) * time.Second
	cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")

	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, errors.NewValidationError("port", portStr, "invalid port number")
	}
	if port < 1 || port > 65535 {
		return 0, errors.NewValidationError("port", port, "port out of range")
	}
	return port, nil
}

// startWithGracefulShutdown starts the HTTP server with graceful shutdown.
// The context is used to detect shutdown signals - when cancelled, server will shutdown gracefully.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	// Wait for server error or context cancellation (e.g., SIGINT/SIGTERM from main.go)
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")

		// Use Background() since the parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Server state cleanup had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}
