package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Adapter wraps an Engine with precondition checks, a read-through
// voice catalog cache, and failure translation. It is the only way the
// rest of voxd talks to the engine: no raw engine error escapes it
// unwrapped.
//
// Known limitation: only the first audio segment of a multi-segment
// synthesis is used. Long input is truncated to the engine's first
// chunk rather than concatenated.
type Adapter struct {
	engine Engine
	logger *slog.Logger

	mu      sync.RWMutex
	catalog []Voice // engine order, nil until first load
	byID    map[string]struct{}
}

// NewAdapter creates an adapter over engine. logger may be nil.
func NewAdapter(engine Engine, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		engine: engine,
		logger: logger,
	}
}

// Voices returns the catalog, loading it from the engine on first use.
// An empty catalog is a valid result, not an error.
func (a *Adapter) Voices(ctx context.Context) ([]Voice, error) {
	a.mu.RLock()
	cached := a.catalog
	a.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	return a.refresh(ctx)
}

// RefreshVoices reloads the catalog from the engine, replacing the cache.
func (a *Adapter) RefreshVoices(ctx context.Context) error {
	_, err := a.refresh(ctx)
	return err
}

func (a *Adapter) refresh(ctx context.Context) ([]Voice, error) {
	voices, err := a.engine.Voices(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading voice catalog: %w", err)
	}
	if voices == nil {
		voices = []Voice{}
	}

	byID := make(map[string]struct{}, len(voices))
	for _, v := range voices {
		byID[v.ID] = struct{}{}
	}

	a.mu.Lock()
	a.catalog = voices
	a.byID = byID
	a.mu.Unlock()

	a.logger.Debug("voice catalog loaded", "count", len(voices))
	return voices, nil
}

// knowsVoice reports whether voiceID is in the cached catalog, loading
// the catalog if it has never been fetched.
func (a *Adapter) knowsVoice(ctx context.Context, voiceID string) (bool, error) {
	a.mu.RLock()
	loaded := a.catalog != nil
	_, ok := a.byID[voiceID]
	a.mu.RUnlock()
	if loaded {
		return ok, nil
	}

	if _, err := a.refresh(ctx); err != nil {
		return false, err
	}
	a.mu.RLock()
	_, ok = a.byID[voiceID]
	a.mu.RUnlock()
	return ok, nil
}

// Synthesize runs one synthesis and returns the first produced segment.
//
// Preconditions: text non-empty, voiceID present in the catalog, speed
// positive and finite. Failures map onto the package's error taxonomy:
// ErrUnknownVoice, ErrNoAudio, or a wrapped synthesis failure.
func (a *Adapter) Synthesize(ctx context.Context, text, voiceID string, speed float64) (*Segment, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if speed <= 0 || math.IsInf(speed, 0) || math.IsNaN(speed) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSpeed, speed)
	}

	known, err := a.knowsVoice(ctx, voiceID)
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoice, voiceID)
	}

	segments, err := a.engine.Synthesize(ctx, text, voiceID, speed)
	if err != nil {
		// Taxonomy errors pass through; anything else is wrapped so the
		// dispatcher can tell an engine fault from its own bugs.
		switch {
		case isTaxonomy(err):
			return nil, err
		default:
			return nil, fmt.Errorf("synthesis failed: %w", err)
		}
	}
	if len(segments) == 0 {
		return nil, ErrNoAudio
	}

	seg := segments[0]
	if len(segments) > 1 {
		a.logger.Warn("multi-segment synthesis truncated to first segment",
			"voice", voiceID,
			"segments", len(segments))
	}
	if seg.SampleRate == 0 {
		seg.SampleRate = DefaultSampleRate
	}

	a.logger.Debug("synthesized audio",
		"voice", voiceID,
		"speed", speed,
		"pcm_bytes", len(seg.PCM))
	return &seg, nil
}

func isTaxonomy(err error) bool {
	for _, known := range []error{ErrUnknownVoice, ErrNoAudio, ErrEmptyText, ErrInvalidSpeed} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
