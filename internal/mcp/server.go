package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/voxd/voxd/internal/tools"
)

// Server wraps the MCP SDK server around the tool dispatcher.
type Server struct {
	mcpServer  *mcp.Server
	dispatcher *tools.Dispatcher
	logger     *slog.Logger
	name       string
	version    string
}

// Config holds MCP server configuration.
type Config struct {
	Name       string
	Version    string
	Dispatcher *tools.Dispatcher
	Logger     *slog.Logger
}

// NewServer creates an MCP server with the speech tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		name:       cfg.Name,
		version:    cfg.Version,
	}

	if err := s.registerSpeechTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return s, nil
}

// Run starts the MCP server on the given transport. It blocks until
// the transport closes or ctx is canceled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("mcp server starting", "name", s.name, "version", s.version)
	return s.mcpServer.Run(ctx, transport)
}

// ListVoicesInput is the (empty) input schema for list_voices.
type ListVoicesInput struct{}

// GenerateSpeechInput is the input schema for generate_speech.
type GenerateSpeechInput struct {
	Text    string  `json:"text" jsonschema:"The text to synthesize into speech"`
	VoiceID string  `json:"voice_id" jsonschema:"Voice identifier from list_voices (e.g. af_bella)"`
	Speed   float64 `json:"speed,omitempty" jsonschema:"Playback speed multiplier, default 1.0"`
}

// CleanupAudioInput is the input schema for cleanup_audio.
type CleanupAudioInput struct {
	AudioURI string `json:"audio_uri" jsonschema:"The audio_uri returned by generate_speech"`
}

// registerSpeechTools registers the three speech tools.
func (s *Server) registerSpeechTools() error {
	listVoicesSchema, err := jsonschema.For[ListVoicesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.MethodListVoices, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.MethodListVoices,
		Description: "List the available text-to-speech voices with their identifiers and display names.",
		InputSchema: listVoicesSchema,
	}, s.ListVoices)

	generateSchema, err := jsonschema.For[GenerateSpeechInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.MethodGenerateSpeech, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.MethodGenerateSpeech,
		Description: "Synthesize text into speech and return a URI where the generated wav audio can be fetched.",
		InputSchema: generateSchema,
	}, s.GenerateSpeech)

	cleanupSchema, err := jsonschema.For[CleanupAudioInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.MethodCleanupAudio, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        tools.MethodCleanupAudio,
		Description: "Delete a previously generated audio file by its audio_uri once it is no longer needed.",
		InputSchema: cleanupSchema,
	}, s.CleanupAudio)

	return nil
}

// ListVoices handles the list_voices MCP tool call.
func (s *Server) ListVoices(ctx context.Context, req *mcp.CallToolRequest, in ListVoicesInput) (*mcp.CallToolResult, any, error) {
	return s.invoke(ctx, tools.MethodListVoices, map[string]any{})
}

// GenerateSpeech handles the generate_speech MCP tool call.
func (s *Server) GenerateSpeech(ctx context.Context, req *mcp.CallToolRequest, in GenerateSpeechInput) (*mcp.CallToolResult, any, error) {
	params := map[string]any{
		"text":     in.Text,
		"voice_id": in.VoiceID,
	}
	// Zero means the client omitted speed; the dispatcher applies the
	// default only for absent parameters, so keep it absent.
	if in.Speed != 0 {
		params["speed"] = in.Speed
	}
	return s.invoke(ctx, tools.MethodGenerateSpeech, params)
}

// CleanupAudio handles the cleanup_audio MCP tool call.
func (s *Server) CleanupAudio(ctx context.Context, req *mcp.CallToolRequest, in CleanupAudioInput) (*mcp.CallToolResult, any, error) {
	return s.invoke(ctx, tools.MethodCleanupAudio, map[string]any{
		"audio_uri": in.AudioURI,
	})
}

// invoke runs one dispatcher call and shapes the outcome for MCP.
// Tool-taxonomy failures become IsError results the calling model can
// read and correct; anything else is a system error for the protocol.
func (s *Server) invoke(ctx context.Context, method string, params map[string]any) (*mcp.CallToolResult, any, error) {
	result, err := s.dispatcher.Invoke(ctx, method, params)
	if err != nil {
		if terr, ok := err.(*tools.Error); ok {
			return errorToMCP(terr), nil, nil
		}
		return nil, nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return dataToMCP(result), nil, nil
}
