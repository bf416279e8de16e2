// Package app provides application initialization and dependency wiring.
//
// App is the container that holds every long-lived component: the
// artifact store, the synthesis adapter over the engine client, and
// the tool dispatcher. Both entry points (MCP stdio and the HTTP
// artifact server) are built from the same App so they always agree
// on configuration and storage.
package app

import (
	"context"
	"log/slog"

	"github.com/voxd/voxd/internal/artifact"
	"github.com/voxd/voxd/internal/config"
	"github.com/voxd/voxd/internal/synth"
	"github.com/voxd/voxd/internal/tools"
)

// App is the core application container.
type App struct {
	Config     *config.Config
	Store      *artifact.Store
	Adapter    *synth.Adapter
	Dispatcher *tools.Dispatcher
	Logger     *slog.Logger
}

// Close releases application resources. Artifacts deliberately
// survive shutdown: cleanup is the client's responsibility via the
// cleanup_audio tool.
func (a *App) Close() error {
	a.Logger.Info("shutting down application")
	return nil
}

// WarmVoiceCatalog loads the voice catalog from the engine so the
// first tool call does not pay the fetch. A failure is reported, not
// fatal: the catalog loads lazily on first use instead.
func (a *App) WarmVoiceCatalog(ctx context.Context) {
	if err := a.Adapter.RefreshVoices(ctx); err != nil {
		a.Logger.Warn("voice catalog not available yet", "error", err)
	}
}
