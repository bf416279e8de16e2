// Package synth bridges voxd to an external text-to-speech engine.
//
// The engine itself (model loading, phonemization, inference) is an
// opaque capability behind the Engine interface; this package owns the
// seam: input preconditions, the voice catalog cache, and translation
// of engine failures into errors the tool boundary understands.
package synth

import (
	"context"
	"errors"
)

// Engine is the opaque synthesis capability. Implementations may
// serialize work internally; callers should treat Synthesize as
// expensive and honor context cancellation.
type Engine interface {
	// Synthesize produces one or more audio segments for text. Long
	// input may yield multiple segments lazily on the engine side.
	Synthesize(ctx context.Context, text, voiceID string, speed float64) ([]Segment, error)

	// Voices returns the engine's voice catalog.
	Voices(ctx context.Context) ([]Voice, error)
}

// Voice describes one catalog entry. The first character of ID denotes
// the voice's language code (e.g. "af_bella" -> American English female).
type Voice struct {
	ID   string
	Name string
}

// Segment is one contiguous buffer of synthesized audio:
// 16-bit little-endian mono PCM.
type Segment struct {
	PCM        []byte
	SampleRate int
}

// DefaultSampleRate is the PCM rate Kokoro-family engines emit.
const DefaultSampleRate = 24000

var (
	// ErrUnknownVoice is returned when the requested voice is not in
	// the engine's catalog.
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrNoAudio is returned when the engine accepted the request but
	// produced zero audio segments.
	ErrNoAudio = errors.New("engine produced no audio")

	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("empty text")

	// ErrInvalidSpeed is returned when speed is not a positive finite number.
	ErrInvalidSpeed = errors.New("invalid speed")
)
