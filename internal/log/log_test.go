package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: slog.LevelDebug})

	logger.Debug("synthesis started", "voice", "af_bella")

	out := buf.String()
	assert.Contains(t, out, "synthesis started")
	assert.Contains(t, out, "voice=af_bella")
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{JSON: true})

	logger.Info("artifact saved", "filename", "abc.wav")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "artifact saved", entry["msg"])
	assert.Equal(t, "abc.wav", entry["filename"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn})

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestNewNop_DiscardsOutput(t *testing.T) {
	t.Parallel()

	logger := NewNop()
	// Must not panic, must not write anywhere observable.
	logger.Error("discarded")
}

func TestNew_DefaultLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{})

	logger.Debug("hidden at default level")
	logger.Info("visible")

	lines := strings.TrimSpace(buf.String())
	assert.NotContains(t, lines, "hidden at default level")
	assert.Contains(t, lines, "visible")
}
