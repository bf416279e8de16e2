// Package cmd provides CLI commands for voxd.
//
// Commands:
//   - mcp: MCP server on stdio plus the audio-serving HTTP endpoint
//   - serve: audio-serving HTTP endpoint only
//   - voices: print the engine's voice catalog
//
// Signal handling and graceful shutdown are implemented for all
// commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the voxd CLI application.
func Execute() error {
	// Initialize logger once at entry point. Logs go to stderr:
	// in mcp mode stdout belongs to the protocol.
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "mcp":
		return runMCP()
	case "serve":
		return runServe()
	case "voices":
		return runVoices()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("voxd - Text-to-speech tool server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  voxd mcp           Start the MCP server (stdio) with the audio endpoint")
	fmt.Println("  voxd serve [addr]  Start the audio HTTP endpoint only (default: 127.0.0.1:8080)")
	fmt.Println("  voxd voices        List the available voices")
	fmt.Println("  voxd --version     Show version information")
	fmt.Println("  voxd --help        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  VOXD_ENGINE_URL      Synthesis engine base URL (default: http://localhost:8102)")
	fmt.Println("  VOXD_AUDIO_DIR       Artifact directory (default: ~/.voxd/audio)")
	fmt.Println("  VOXD_HTTP_HOST       Audio endpoint bind host (default: 127.0.0.1)")
	fmt.Println("  VOXD_HTTP_PORT       Audio endpoint port (default: 8080)")
	fmt.Println("  VOXD_ADVERTISE_HOST  Host used in returned audio URIs (default: bind host)")
	fmt.Println("  DEBUG                Enable debug logging")
}
