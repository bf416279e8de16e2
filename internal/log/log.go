// Package log provides the logging infrastructure for voxd.
//
// Components receive a *slog.Logger via their constructors rather than
// reaching for a global; each component adds its own context with
// logger.With(). MCP mode speaks the protocol on stdout, so all log
// output goes to stderr.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Config defines logger configuration options.
type Config struct {
	// Level sets the minimum log level. Default: slog.LevelInfo
	Level slog.Level

	// JSON enables JSON format output. Default: false (text format)
	JSON bool
}

// New creates a new logger with the given configuration.
// Output is written to os.Stderr.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a new logger that writes to the specified writer.
// Useful for tests that want to inspect log output.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// NewNop creates a logger that discards all output. Test use only;
// production code should always configure a real writer.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
