package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/voxd/voxd/internal/app"
	"github.com/voxd/voxd/internal/config"
)

const voicesTimeout = 30 * time.Second

// runVoices prints the engine's voice catalog.
func runVoices() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, voicesTimeout)
	defer timeoutCancel()

	a, err := app.Setup(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() { _ = a.Close() }()

	voices, err := a.Adapter.Voices(ctx)
	if err != nil {
		return fmt.Errorf("fetching voices: %w", err)
	}

	if len(voices) == 0 {
		fmt.Println("No voices available.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, v := range voices {
		fmt.Fprintf(w, "%s\t%s\n", v.ID, v.Name)
	}
	return w.Flush()
}
