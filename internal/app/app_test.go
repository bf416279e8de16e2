package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxd/voxd/internal/config"
	"github.com/voxd/voxd/internal/log"
	"github.com/voxd/voxd/internal/tools"
)

// fakeEngine serves the Kokoro sidecar API surface the app talks to.
func fakeEngine(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/audio/voices", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"voices": {"af_bella"}})
	})
	mux.HandleFunc("POST /v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0x01, 0x00, 0x02, 0x00})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, engineURL string) *config.Config {
	t.Helper()
	return &config.Config{
		HTTPHost:      "127.0.0.1",
		HTTPPort:      8080,
		AdvertiseHost: "127.0.0.1",
		AudioDir:      t.TempDir(),
		Engine: config.EngineConfig{
			BaseURL:        engineURL,
			TimeoutSeconds: 5,
		},
		RateRPS:   10,
		RateBurst: 30,
	}
}

func TestSetup(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, fakeEngine(t).URL)

	a, err := Setup(cfg, log.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Adapter)
	assert.NotNil(t, a.Dispatcher)
	assert.DirExists(t, cfg.AudioDir)
}

func TestSetupBadAudioDir(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://localhost:8102")
	cfg.AudioDir = ""

	_, err := Setup(cfg, log.NewNop())
	assert.ErrorContains(t, err, "artifact store")
}

// The full chain: generate through the dispatcher, confirm the file
// landed in the configured directory, clean it up again.
func TestGenerateAndCleanupThroughDispatcher(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, fakeEngine(t).URL)

	a, err := Setup(cfg, log.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	ctx := context.Background()

	result, err := a.Dispatcher.Invoke(ctx, tools.MethodGenerateSpeech, map[string]any{
		"text":     "Hello world",
		"voice_id": "af_bella",
	})
	require.NoError(t, err)

	generated, ok := result.(*tools.GenerateSpeechResult)
	require.True(t, ok)

	parsed, err := url.Parse(generated.AudioURI)
	require.NoError(t, err)
	filename := filepath.Base(parsed.Path)
	assert.FileExists(t, filepath.Join(cfg.AudioDir, filename))

	cleanup, err := a.Dispatcher.Invoke(ctx, tools.MethodCleanupAudio, map[string]any{
		"audio_uri": generated.AudioURI,
	})
	require.NoError(t, err)

	cleaned, ok := cleanup.(*tools.CleanupAudioResult)
	require.True(t, ok)
	assert.True(t, cleaned.Success)
	assert.NoFileExists(t, filepath.Join(cfg.AudioDir, filename))

	entries, err := os.ReadDir(cfg.AudioDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may remain after cleanup")
}

func TestWarmVoiceCatalog(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, fakeEngine(t).URL)

	a, err := Setup(cfg, log.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	a.WarmVoiceCatalog(context.Background())

	voices, err := a.Adapter.Voices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "af_bella", voices[0].ID)
}

func TestWarmVoiceCatalogEngineDown(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://127.0.0.1:1")

	a, err := Setup(cfg, log.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	// Must not fail startup when the engine is unreachable.
	a.WarmVoiceCatalog(context.Background())
}
