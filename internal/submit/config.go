package submit

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all script submission configuration.
type Config struct {
	// Render API settings
	APIURL      string
	BearerToken string

	// Job settings
	Voice        string
	Volume       float64
	Interrupt    bool
	TTLMS        int
	DedupeWindow time.Duration

	// Formatting settings
	Prefix        string
	MaxTextLength int

	// Logging settings
	LogLevel  string
	LogFormat string
}

// Load reads submission configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		// Render API settings
		APIURL:      getEnvString("VOXCUT_API_URL", "http://voxcut:8080"),
		BearerToken: os.Getenv("VOXCUT_BEARER_TOKEN"),

		// Job settings
		Voice:        os.Getenv("SUBMIT_VOICE"),
		Volume:       getEnvFloat("SUBMIT_VOLUME", 0),
		Interrupt:    getEnvBool("SUBMIT_INTERRUPT", false),
		TTLMS:        getEnvInt("SUBMIT_TTL_MS", 0),
		DedupeWindow: getEnvDuration("SUBMIT_DEDUPE_WINDOW", 0),

		// Formatting settings
		Prefix:        os.Getenv("SUBMIT_PREFIX"),
		MaxTextLength: getEnvInt("SUBMIT_MAX_TEXT_LENGTH", 1000),

		// Logging settings
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("VOXCUT_API_URL cannot be empty")
	}

	if c.MaxTextLength < 1 {
		return errors.New("SUBMIT_MAX_TEXT_LENGTH must be at least 1")
	}

	if c.Volume < 0 || c.Volume > 4 {
		return errors.New("SUBMIT_VOLUME must be in (0, 4]")
	}

	if c.TTLMS < 0 {
		return errors.New("SUBMIT_TTL_MS must be non-negative")
	}

	if c.DedupeWindow < 0 {
		return errors.New("SUBMIT_DEDUPE_WINDOW must be non-negative")
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

// getEnvBool returns the environment variable as a bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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
