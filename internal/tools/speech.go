// Package tools implements the speech tool operations and the
// transport-independent dispatcher that exposes them.
//
// The operations (list_voices, generate_speech, cleanup_audio) carry
// the business rules: argument validation, collaborator orchestration,
// and the translation of every collaborator failure into the uniform
// tool-error envelope. Transports (MCP, tests) sit on top of
// Dispatcher.Invoke and never see raw internal errors.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/voxd/voxd/internal/artifact"
	"github.com/voxd/voxd/internal/synth"
)

// cleanupNotFoundMessage is the client-visible message when cleanup
// targets an artifact that no longer exists. Already-gone is a
// successful outcome for cleanup, so it rides in the result rather
// than the error envelope.
const cleanupNotFoundMessage = "File not found at specified URI"

// Synthesizer is the synthesis capability Speech depends on.
type Synthesizer interface {
	Voices(ctx context.Context) ([]synth.Voice, error)
	Synthesize(ctx context.Context, text, voiceID string, speed float64) (*synth.Segment, error)
}

// Store is the artifact persistence capability Speech depends on.
type Store interface {
	Save(pcm []byte, sampleRate int) (string, error)
	Delete(filename string) (bool, error)
}

// Speech implements the three tool operations over a Synthesizer and
// a Store. It owns the advertised audio URI shape; nothing else in the
// system builds or parses those URIs.
type Speech struct {
	synth  Synthesizer
	store  Store
	host   string
	port   int
	logger *slog.Logger
}

// NewSpeech wires a Speech service. host and port form the advertised
// audio URI base; they must match where the artifact server listens
// from the client's point of view. logger may be nil.
func NewSpeech(synthesizer Synthesizer, store Store, host string, port int, logger *slog.Logger) *Speech {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speech{
		synth:  synthesizer,
		store:  store,
		host:   host,
		port:   port,
		logger: logger,
	}
}

// VoiceInfo is one catalog entry in a list_voices result.
type VoiceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListVoicesResult is the list_voices success payload.
type ListVoicesResult struct {
	Voices []VoiceInfo `json:"voices"`
}

// GenerateSpeechResult is the generate_speech success payload.
type GenerateSpeechResult struct {
	AudioURI string `json:"audio_uri"`
	Format   string `json:"format"`
}

// CleanupAudioResult is the cleanup_audio success payload. Success is
// false when the artifact was already gone; Error then carries the
// human-readable reason.
type CleanupAudioResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ListVoices returns the voice catalog in engine order. An empty
// catalog yields an empty list, not an error.
func (s *Speech) ListVoices(ctx context.Context) (*ListVoicesResult, *Error) {
	voices, err := s.synth.Voices(ctx)
	if err != nil {
		return nil, Errorf(KindSynthesisFailed, "listing voices: %v", err)
	}

	out := make([]VoiceInfo, 0, len(voices))
	for _, v := range voices {
		out = append(out, VoiceInfo{ID: v.ID, Name: v.Name})
	}
	return &ListVoicesResult{Voices: out}, nil
}

// GenerateSpeech synthesizes text, saves the audio as a wave artifact,
// and returns the URI where the artifact can be fetched.
//
// text and voiceID are validated before any collaborator is touched.
func (s *Speech) GenerateSpeech(ctx context.Context, text, voiceID string, speed float64) (*GenerateSpeechResult, *Error) {
	if strings.TrimSpace(text) == "" {
		return nil, Errorf(KindMissingArgument, "text is required")
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, Errorf(KindMissingArgument, "voice_id is required")
	}

	segment, err := s.synth.Synthesize(ctx, text, voiceID, speed)
	if err != nil {
		return nil, s.asSynthesisError(err)
	}

	filename, err := s.store.Save(segment.PCM, segment.SampleRate)
	if err != nil {
		return nil, Errorf(KindStorage, "saving audio: %v", err)
	}

	uri := s.audioURI(filename)
	s.logger.Info("speech generated",
		"voice", voiceID,
		"chars", len(text),
		"uri", uri)

	return &GenerateSpeechResult{AudioURI: uri, Format: "wav"}, nil
}

// CleanupAudio deletes the artifact an audio URI points at. The URI
// must carry scheme, host, and path; only its final path segment is
// used as the artifact name, so the rest of the URI is never trusted.
func (s *Speech) CleanupAudio(ctx context.Context, audioURI string) (*CleanupAudioResult, *Error) {
	if strings.TrimSpace(audioURI) == "" {
		return nil, Errorf(KindMissingArgument, "audio_uri is required")
	}

	parsed, err := url.Parse(audioURI)
	if err != nil {
		return nil, Errorf(KindMalformedURI, "invalid audio_uri: %v", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" || parsed.Path == "" {
		return nil, Errorf(KindMalformedURI, "audio_uri must carry scheme, host and path: %q", audioURI)
	}

	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" || filename == "" {
		return nil, Errorf(KindMalformedURI, "audio_uri has no filename segment: %q", audioURI)
	}

	deleted, err := s.store.Delete(filename)
	if err != nil {
		if errors.Is(err, artifact.ErrUnsafeFilename) {
			return nil, Errorf(KindInvalidReference, "unsafe audio reference: %q", filename)
		}
		return nil, Errorf(KindStorage, "deleting audio: %v", err)
	}

	if !deleted {
		return &CleanupAudioResult{Success: false, Error: cleanupNotFoundMessage}, nil
	}

	s.logger.Info("artifact deleted", "filename", filename)
	return &CleanupAudioResult{Success: true}, nil
}

// audioURI builds the advertised fetch URI for a stored artifact.
func (s *Speech) audioURI(filename string) string {
	return fmt.Sprintf("http://%s:%d/audio/%s", s.host, s.port, filename)
}

// asSynthesisError maps adapter failures onto the tool taxonomy while
// preserving the underlying message.
func (s *Speech) asSynthesisError(err error) *Error {
	switch {
	case errors.Is(err, synth.ErrUnknownVoice):
		return Errorf(KindInvalidVoice, "%v", err)
	case errors.Is(err, synth.ErrNoAudio):
		return Errorf(KindSynthesisEmpty, "%v", err)
	case errors.Is(err, synth.ErrEmptyText):
		return Errorf(KindMissingArgument, "text is required")
	case errors.Is(err, synth.ErrInvalidSpeed):
		return Errorf(KindInvalidArgument, "%v", err)
	default:
		return Errorf(KindSynthesisFailed, "%v", err)
	}
}
