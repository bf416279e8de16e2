package config

import (
	"fmt"
	"net/url"
)

// Validate checks all configuration values and returns the first error
// found. Called by Load before any component is constructed.
func (c *Config) Validate() error {
	if c.HTTPHost == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidHTTPHost)
	}

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("%w: port must be 1-65535, got %d", ErrInvalidHTTPPort, c.HTTPPort)
	}

	if c.AudioDir == "" {
		return fmt.Errorf("%w: directory must not be empty", ErrInvalidAudioDir)
	}

	if err := validateEngineURL(c.Engine.BaseURL); err != nil {
		return err
	}

	if c.Engine.TimeoutSeconds < 1 || c.Engine.TimeoutSeconds > 600 {
		return fmt.Errorf("%w: timeout must be 1-600 seconds, got %d",
			ErrInvalidEngineTimeout, c.Engine.TimeoutSeconds)
	}

	if c.RateRPS <= 0 {
		return fmt.Errorf("%w: rate_rps must be positive, got %g", ErrInvalidRateLimit, c.RateRPS)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1, got %d", ErrInvalidRateLimit, c.RateBurst)
	}

	return nil
}

func validateEngineURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: base URL must not be empty", ErrInvalidEngineURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEngineURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidEngineURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidEngineURL)
	}
	return nil
}
