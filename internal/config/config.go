package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// HTTP settings
	HTTPPort    int
	BearerToken string

	// Speech provider settings
	TTSEndpoint  string
	TTSAPIKey    string
	TTSModel     string
	DefaultVoice string

	// Clip settings
	ClipDir       string
	DefaultVolume float64

	// Behavior settings
	IdleTimeout   time.Duration
	MaxTextLength int
	QueueCapacity int
	DefaultTTL    time.Duration

	// Logging settings
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		// HTTP settings
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		BearerToken: os.Getenv("BEARER_TOKEN"),

		// Speech provider settings
		TTSEndpoint:  os.Getenv("TTS_ENDPOINT"),
		TTSAPIKey:    os.Getenv("TTS_API_KEY"),
		TTSModel:     getEnvString("TTS_MODEL", ""),
		DefaultVoice: getEnvString("DEFAULT_VOICE", "default"),

		// Clip settings
		ClipDir:       getEnvString("CLIP_DIR", "clips"),
		DefaultVolume: getEnvFloat("DEFAULT_VOLUME", 1.0),

		// Behavior settings
		IdleTimeout:   getEnvDuration("IDLE_TIMEOUT", 5*time.Minute),
		MaxTextLength: getEnvInt("MAX_TEXT_LENGTH", 1000),
		QueueCapacity: getEnvInt("QUEUE_CAPACITY", 100),
		DefaultTTL:    getEnvDuration("DEFAULT_TTL", 30*time.Second),

		// Logging settings
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AuthDisabled returns true if bearer token authentication is disabled.
func (c *Config) AuthDisabled() bool {
	return c.BearerToken == ""
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	// TTS_ENDPOINT is optional: without it the service still serves
	// the synchronous /v1/process endpoint.

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return errors.New("HTTP_PORT must be between 1 and 65535")
	}

	if c.MaxTextLength < 1 {
		return errors.New("MAX_TEXT_LENGTH must be at least 1")
	}

	if c.QueueCapacity < 1 {
		return errors.New("QUEUE_CAPACITY must be at least 1")
	}

	if c.IdleTimeout < 0 {
		return errors.New("IDLE_TIMEOUT must be non-negative")
	}

	if c.DefaultVolume <= 0 || c.DefaultVolume > 4 {
		return errors.New("DEFAULT_VOLUME must be in (0, 4]")
	}

	if c.ClipDir == "" {
		return errors.New("CLIP_DIR must not be empty")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return errors.New("LOG_FORMAT must be one of: text, json")
	}

	return nil
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as a float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
