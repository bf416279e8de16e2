package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/voxd/voxd/internal/artifact"
	"github.com/voxd/voxd/internal/config"
	"github.com/voxd/voxd/internal/synth"
	"github.com/voxd/voxd/internal/tools"
)

// Setup builds the application container from validated configuration.
func Setup(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := artifact.NewStore(cfg.AudioDir, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing artifact store: %w", err)
	}

	engine := synth.NewKokoroEngine(
		cfg.Engine.BaseURL,
		time.Duration(cfg.Engine.TimeoutSeconds)*time.Second,
		logger,
	)
	adapter := synth.NewAdapter(engine, logger)

	speech := tools.NewSpeech(adapter, store, cfg.AdvertiseHost, cfg.HTTPPort, logger)
	dispatcher := tools.NewDispatcher(speech, logger)

	logger.Info("application initialized",
		"audio_dir", store.Dir(),
		"engine", cfg.Engine.BaseURL,
		"advertise", fmt.Sprintf("%s:%d", cfg.AdvertiseHost, cfg.HTTPPort),
	)

	return &App{
		Config:     cfg,
		Store:      store,
		Adapter:    adapter,
		Dispatcher: dispatcher,
		Logger:     logger,
	}, nil
}
