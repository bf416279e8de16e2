package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// KokoroEngine speaks HTTP to a Kokoro TTS sidecar exposing the
// OpenAI-compatible speech API (POST /v1/audio/speech with
// response_format "pcm", GET /v1/audio/voices).
type KokoroEngine struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

type kokoroSpeechRequest struct {
	Model  string  `json:"model"`
	Input  string  `json:"input"`
	Voice  string  `json:"voice"`
	Speed  float64 `json:"speed,omitempty"`
	Format string  `json:"response_format,omitempty"`
}

type kokoroVoicesResponse struct {
	Voices []string `json:"voices"`
}

type kokoroErrorResponse struct {
	Detail string `json:"detail"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewKokoroEngine creates a Kokoro client. baseURL should not carry a
// trailing slash. logger may be nil.
func NewKokoroEngine(baseURL string, timeout time.Duration, logger *slog.Logger) *KokoroEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &KokoroEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      "kokoro",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Synthesize requests raw PCM from the sidecar. The API streams the
// whole utterance as one body, so the result is a single segment.
func (e *KokoroEngine) Synthesize(ctx context.Context, text, voiceID string, speed float64) ([]Segment, error) {
	body, err := json.Marshal(kokoroSpeechRequest{
		Model:  e.model,
		Input:  text,
		Voice:  voiceID,
		Speed:  speed,
		Format: "pcm",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.asEngineError(resp, voiceID)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading speech response: %w", err)
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}

	e.logger.Debug("engine returned audio", "voice", voiceID, "pcm_bytes", len(pcm))
	return []Segment{{PCM: pcm, SampleRate: DefaultSampleRate}}, nil
}

// Voices fetches the catalog. The sidecar reports bare voice IDs; a
// display name is derived from the ID for catalog listings.
func (e *KokoroEngine) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		e.baseURL+"/v1/audio/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("creating voices request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voices request: engine returned status %d", resp.StatusCode)
	}

	var decoded kokoroVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding voices response: %w", err)
	}

	voices := make([]Voice, 0, len(decoded.Voices))
	for _, id := range decoded.Voices {
		voices = append(voices, Voice{ID: id, Name: displayName(id)})
	}
	return voices, nil
}

// asEngineError maps a non-200 sidecar response onto the error
// taxonomy. An unknown-voice rejection becomes ErrUnknownVoice; other
// failures carry the engine's message.
func (e *KokoroEngine) asEngineError(resp *http.Response, voiceID string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var decoded kokoroErrorResponse
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &decoded); err == nil {
		if decoded.Detail != "" {
			message = decoded.Detail
		} else if decoded.Error.Message != "" {
			message = decoded.Error.Message
		}
	}

	if resp.StatusCode == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(message), "voice") {
		return fmt.Errorf("%w: %q", ErrUnknownVoice, voiceID)
	}

	return fmt.Errorf("engine returned status %d: %s", resp.StatusCode, message)
}

// displayName derives a human-readable name from a Kokoro voice ID
// such as "af_bella" -> "Bella (af)". IDs without the lang_name shape
// are returned unchanged.
func displayName(id string) string {
	prefix, rest, ok := strings.Cut(id, "_")
	if !ok || prefix == "" || rest == "" {
		return id
	}
	runes := []rune(rest)
	runes[0] = unicode.ToUpper(runes[0])
	return fmt.Sprintf("%s (%s)", string(runes), prefix)
}
