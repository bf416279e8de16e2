// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (VOXD_* runtime overrides)
//  2. Config file (~/.voxd/config.yaml or ./config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Categories:
//   - HTTP: bind host/port for the artifact file server, plus the host
//     advertised in generated audio URIs
//   - Storage: the artifact directory holding synthesized WAV files
//   - Engine: the Kokoro TTS sidecar endpoint and request timeout
//   - Rate: per-IP token bucket parameters for the audio endpoint
//
// Validation is fail-fast: Load returns an error before any component
// is constructed if a value is out of range, using sentinel errors for
// errors.Is checks.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidHTTPHost indicates the HTTP bind host is empty.
	ErrInvalidHTTPHost = errors.New("invalid HTTP host")

	// ErrInvalidHTTPPort indicates the HTTP port is out of range.
	ErrInvalidHTTPPort = errors.New("invalid HTTP port")

	// ErrInvalidAudioDir indicates the artifact directory is empty.
	ErrInvalidAudioDir = errors.New("invalid audio directory")

	// ErrInvalidEngineURL indicates the engine base URL is malformed.
	ErrInvalidEngineURL = errors.New("invalid engine URL")

	// ErrInvalidEngineTimeout indicates the engine timeout is out of range.
	ErrInvalidEngineTimeout = errors.New("invalid engine timeout")

	// ErrInvalidRateLimit indicates the rate limit parameters are out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// Config stores application configuration.
type Config struct {
	// HTTP file server configuration
	HTTPHost      string `mapstructure:"http_host"`
	HTTPPort      int    `mapstructure:"http_port"`
	AdvertiseHost string `mapstructure:"advertise_host"` // host placed in generated audio URIs; defaults to http_host

	// Artifact storage
	AudioDir string `mapstructure:"audio_dir"`

	// Synthesis engine (see Engine type)
	Engine EngineConfig `mapstructure:"engine"`

	// Audio endpoint rate limiting
	RateRPS   float64 `mapstructure:"rate_rps"`
	RateBurst int     `mapstructure:"rate_burst"`

	// TrustProxy enables X-Real-IP/X-Forwarded-For for rate limiter keys.
	// Set true only behind a reverse proxy.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// EngineConfig configures the external TTS engine endpoint.
type EngineConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".voxd")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Also support current directory

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.AdvertiseHost == "" {
		cfg.AdvertiseHost = cfg.HTTPHost
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	// HTTP defaults
	v.SetDefault("http_host", "127.0.0.1")
	v.SetDefault("http_port", 8080)

	// Storage defaults
	v.SetDefault("audio_dir", filepath.Join(configDir, "audio"))

	// Engine defaults (Kokoro sidecar)
	v.SetDefault("engine.base_url", "http://localhost:8102")
	v.SetDefault("engine.timeout_seconds", 60)

	// Rate limiting defaults (per IP)
	v.SetDefault("rate_rps", 10.0)
	v.SetDefault("rate_burst", 20)

	// Proxy trust (default: false — safe for direct exposure)
	v.SetDefault("trust_proxy", false)
}

// bindEnvVariables binds environment variable overrides explicitly.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// A panic here is a bug in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("http_host", "VOXD_HTTP_HOST")
	mustBind("http_port", "VOXD_HTTP_PORT")
	mustBind("advertise_host", "VOXD_ADVERTISE_HOST")
	mustBind("audio_dir", "VOXD_AUDIO_DIR")
	mustBind("engine.base_url", "VOXD_ENGINE_URL")
	mustBind("engine.timeout_seconds", "VOXD_ENGINE_TIMEOUT")
	mustBind("trust_proxy", "VOXD_TRUST_PROXY")
}
