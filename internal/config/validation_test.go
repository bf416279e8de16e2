package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		HTTPHost:      "127.0.0.1",
		HTTPPort:      8080,
		AdvertiseHost: "127.0.0.1",
		AudioDir:      "/tmp/voxd-audio",
		Engine: EngineConfig{
			BaseURL:        "http://localhost:8102",
			TimeoutSeconds: 60,
		},
		RateRPS:   10,
		RateBurst: 20,
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty host", func(c *Config) { c.HTTPHost = "" }, ErrInvalidHTTPHost},
		{"port zero", func(c *Config) { c.HTTPPort = 0 }, ErrInvalidHTTPPort},
		{"port too large", func(c *Config) { c.HTTPPort = 70000 }, ErrInvalidHTTPPort},
		{"empty audio dir", func(c *Config) { c.AudioDir = "" }, ErrInvalidAudioDir},
		{"empty engine url", func(c *Config) { c.Engine.BaseURL = "" }, ErrInvalidEngineURL},
		{"bad engine scheme", func(c *Config) { c.Engine.BaseURL = "ftp://host" }, ErrInvalidEngineURL},
		{"engine url no host", func(c *Config) { c.Engine.BaseURL = "http://" }, ErrInvalidEngineURL},
		{"timeout zero", func(c *Config) { c.Engine.TimeoutSeconds = 0 }, ErrInvalidEngineTimeout},
		{"timeout too long", func(c *Config) { c.Engine.TimeoutSeconds = 601 }, ErrInvalidEngineTimeout},
		{"zero rps", func(c *Config) { c.RateRPS = 0 }, ErrInvalidRateLimit},
		{"negative rps", func(c *Config) { c.RateRPS = -1 }, ErrInvalidRateLimit},
		{"zero burst", func(c *Config) { c.RateBurst = 0 }, ErrInvalidRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
