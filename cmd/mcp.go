package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/voxd/voxd/internal/app"
	"github.com/voxd/voxd/internal/config"
	"github.com/voxd/voxd/internal/mcp"
)

// runMCP starts the MCP server on stdio alongside the audio HTTP
// endpoint. Both run until SIGINT/SIGTERM or until the MCP transport
// closes (the client disconnected), whichever comes first.
func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting voxd", "version", Version)

	a, err := app.Setup(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	a.WarmVoiceCatalog(ctx)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:       "voxd",
		Version:    Version,
		Dispatcher: a.Dispatcher,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort)
	srv, err := newArtifactHTTPServer(a, addr)
	if err != nil {
		return err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		logger.Info("artifact server ready", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("artifact server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// When the MCP client disconnects the whole process winds down.
		defer stop()
		logger.Info("MCP server ready", "name", "voxd", "transport", "stdio")
		if err := mcpServer.Run(gctx, &mcpSdk.StdioTransport{}); err != nil {
			return fmt.Errorf("MCP server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("voxd shut down gracefully")
	return nil
}
