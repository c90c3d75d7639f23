package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// AI settings
	GeminiAPIKey     string // empty => remote synthesis/translation unavailable
	OpenAIAPIKey     string // optional fallback translator
	MaxTextRequests  int    // daily Gemini text budget (0 = unlimited)
	MaxTTSRequests   int    // daily synthesis budget (0 = unlimited)
	MaxTotalRequests int

	// Cache backend settings
	DatabaseURL   string // empty => every cache operation is an always-miss no-op
	PurgeAgeHours int    // article rows older than this are swept once per run

	// Feed settings
	FeedsConfigPath string
	FetchTimeout    time.Duration
	StaleThreshold  time.Duration

	// TTS settings
	DefaultVoiceTag string

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		MaxTextRequests:  0,
		MaxTTSRequests:   200,
		MaxTotalRequests: 500,
		PurgeAgeHours:    24,
		FeedsConfigPath:  "configs/feeds.yaml",
		FetchTimeout:     15 * time.Second,
		StaleThreshold:   6 * time.Hour,
		DefaultVoiceTag:  "en-IN",
	}

	// Load from environment
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.DefaultVoiceTag = getEnvOrDefault("DEFAULT_VOICE_TAG", cfg.DefaultVoiceTag)
	cfg.PurgeAgeHours = getEnvIntOrDefault("PURGE_AGE_HOURS", cfg.PurgeAgeHours)
	cfg.MaxTextRequests = getEnvIntOrDefault("MAX_TEXT_REQUESTS", cfg.MaxTextRequests)
	cfg.MaxTTSRequests = getEnvIntOrDefault("MAX_TTS_REQUESTS", cfg.MaxTTSRequests)
	cfg.MaxTotalRequests = getEnvIntOrDefault("MAX_TOTAL_REQUESTS", cfg.MaxTotalRequests)

	if v := os.Getenv("STALE_THRESHOLD_HOURS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.StaleThreshold = time.Duration(val) * time.Hour
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate only rejects nonsense values. A missing GEMINI_API_KEY or
// DATABASE_URL is not an error: both degrade to documented fallback modes.
func (c *Config) Validate() error {
	if c.PurgeAgeHours <= 0 {
		return fmt.Errorf("PURGE_AGE_HOURS must be positive")
	}
	if c.StaleThreshold <= 0 {
		return fmt.Errorf("stale threshold must be positive")
	}
	return nil
}
