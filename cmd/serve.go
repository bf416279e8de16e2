package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxd/voxd/internal/app"
	"github.com/voxd/voxd/internal/config"
	"github.com/voxd/voxd/internal/web"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 1 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

// newArtifactHTTPServer builds the audio-serving HTTP server bound to addr.
func newArtifactHTTPServer(a *app.App, addr string) (*http.Server, error) {
	webServer, err := web.NewServer(web.ServerConfig{
		Logger:     a.Logger,
		Store:      a.Store,
		TrustProxy: a.Config.TrustProxy,
		RateRPS:    a.Config.RateRPS,
		RateBurst:  a.Config.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating artifact server: %w", err)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}, nil
}

// runServe starts the audio HTTP endpoint without the MCP server.
// Useful when the MCP side runs elsewhere or for serving leftovers.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr, err := parseServeAddr(fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort))
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting artifact server", "version", Version)

	a, err := app.Setup(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	srv, err := newArtifactHTTPServer(a, addr)
	if err != nil {
		return err
	}

	logger.Info("artifact server ready",
		"addr", addr,
		"audio", "/audio/{name}",
		"health", "/health",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down artifact server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("artifact server: %w", err)
	}
}
