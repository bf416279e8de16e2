package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
)

// Tool method names as they appear on the wire.
const (
	MethodListVoices     = "list_voices"
	MethodGenerateSpeech = "generate_speech"
	MethodCleanupAudio   = "cleanup_audio"
)

// defaultSpeed applies when generate_speech omits the speed parameter.
const defaultSpeed = 1.0

// positionalOrder maps each method to its declared parameter order for
// callers passing parameters by position.
var positionalOrder = map[string][]string{
	MethodListVoices:     {},
	MethodGenerateSpeech: {"text", "voice_id", "speed"},
	MethodCleanupAudio:   {"audio_uri"},
}

// Dispatcher routes tool invocations to Speech. It is the abstract
// invocation boundary: any transport that can hand it a method name
// and parameters (named or positional) gets the full tool surface.
type Dispatcher struct {
	speech *Speech
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over a Speech service. logger may
// be nil.
func NewDispatcher(speech *Speech, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{speech: speech, logger: logger}
}

// Invoke runs one tool call. params may be nil, a map[string]any of
// named parameters, or a []any of positional parameters. The result is
// the operation's payload struct; on failure the returned error is
// always a *Error carrying a kind and a JSON-RPC code.
func (d *Dispatcher) Invoke(ctx context.Context, method string, params any) (any, error) {
	named, terr := namedParams(method, params)
	if terr != nil {
		return nil, terr
	}

	d.logger.Debug("tool invocation", "method", method)

	switch method {
	case MethodListVoices:
		result, terr := d.speech.ListVoices(ctx)
		if terr != nil {
			return nil, terr
		}
		return result, nil

	case MethodGenerateSpeech:
		text, _ := named["text"].(string)
		voiceID, _ := named["voice_id"].(string)
		speed, terr := speedParam(named)
		if terr != nil {
			return nil, terr
		}
		result, terr := d.speech.GenerateSpeech(ctx, text, voiceID, speed)
		if terr != nil {
			return nil, terr
		}
		return result, nil

	case MethodCleanupAudio:
		audioURI, _ := named["audio_uri"].(string)
		result, terr := d.speech.CleanupAudio(ctx, audioURI)
		if terr != nil {
			return nil, terr
		}
		return result, nil

	default:
		return nil, Errorf(KindMethodNotFound, "unknown method: %q", method)
	}
}

// namedParams normalizes the params value into a name -> value map.
// Positional parameters are matched against the method's declared
// order; extra positional values are rejected.
func namedParams(method string, params any) (map[string]any, *Error) {
	switch p := params.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return p, nil
	case []any:
		order, ok := positionalOrder[method]
		if !ok {
			// Unknown method: let Invoke report method-not-found.
			return map[string]any{}, nil
		}
		if len(p) > len(order) {
			return nil, Errorf(KindInvalidArgument,
				"too many positional parameters for %s: got %d, want at most %d",
				method, len(p), len(order))
		}
		named := make(map[string]any, len(p))
		for i, v := range p {
			named[order[i]] = v
		}
		return named, nil
	default:
		return nil, Errorf(KindInvalidArgument,
			"parameters must be a map or an array, got %T", params)
	}
}

// speedParam extracts and coerces the speed parameter. JSON decoders
// hand numbers over as float64 or json.Number depending on
// configuration; both are accepted. Absent speed falls back to the
// default, anything non-numeric is an invalid argument.
func speedParam(named map[string]any) (float64, *Error) {
	raw, ok := named["speed"]
	if !ok || raw == nil {
		return defaultSpeed, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, Errorf(KindInvalidArgument, "speed must be a number, got %q", v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, Errorf(KindInvalidArgument, "speed must be a number, got %q", v)
		}
		return f, nil
	default:
		return 0, Errorf(KindInvalidArgument, "speed must be a number, got %s", typeName(raw))
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
