package config

import (
	"os"
	"strconv"
	"time"

	"lifeconnect/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Engine   EngineConfig   `validate:"required"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string `validate:"required"`
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required"`
	GinMode string
}

// EngineConfig holds defaults for the connection analysis engine. Each
// invocation may override the analysis parameters; these are the fallbacks.
type EngineConfig struct {
	LookbackDays     int
	MinSampleSize    int
	MaxPValue        float64
	MinEffectSize    float64
	IncludeTimeLag   bool
	MaxTimeLagDays   int
	MaxResults       int
	MinActiveDays    int
	ExpiryHorizon    time.Duration
	ConfounderGate   float64
	SurvivalFraction float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Engine: LoadEngineConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadEngineConfig reads engine defaults from the environment.
func LoadEngineConfig() EngineConfig {
	return EngineConfig{
		LookbackDays:     getEnvIntOrDefault("LOOKBACK_DAYS", 90),
		MinSampleSize:    getEnvIntOrDefault("MIN_SAMPLE_SIZE", 14),
		MaxPValue:        getEnvFloatOrDefault("MAX_P_VALUE", 0.05),
		MinEffectSize:    getEnvFloatOrDefault("MIN_EFFECT_SIZE", 0.3),
		IncludeTimeLag:   getEnvBoolOrDefault("INCLUDE_TIME_LAG", true),
		MaxTimeLagDays:   getEnvIntOrDefault("MAX_TIME_LAG_DAYS", 3),
		MaxResults:       getEnvIntOrDefault("MAX_RESULTS", 20),
		MinActiveDays:    getEnvIntOrDefault("MIN_ACTIVE_DAYS", 3),
		ExpiryHorizon:    getEnvDurationOrDefault("EXPIRY_HORIZON", 30*24*time.Hour),
		ConfounderGate:   getEnvFloatOrDefault("CONFOUNDER_GATE", 0.25),
		SurvivalFraction: getEnvFloatOrDefault("SURVIVAL_FRACTION", 0.5),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Engine.MinSampleSize < 3 {
		return errors.ConfigInvalid("MIN_SAMPLE_SIZE must be at least 3")
	}
	if config.Engine.MaxPValue <= 0 || config.Engine.MaxPValue > 1 {
		return errors.ConfigInvalid("MAX_P_VALUE must be in (0, 1]")
	}
	return nil
}

// Helper functions for environment variable parsing
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
