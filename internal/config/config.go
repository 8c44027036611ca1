package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string

	// Base dataset source. DatasetFile wins when both are set; the URL
	// is fetched once on startup and on every scheduled refresh.
	DatasetURL  string
	DatasetFile string

	// SQLite path for the local key-value slot (user facts, theme).
	DatabasePath string

	// Derived-data cache and background refresh tuning.
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	RefreshEnabled  bool

	// CORS origins for the API, comma-separated.
	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatasetURL:  getEnv("DATASET_URL", ""),
		DatasetFile: getEnv("DATASET_FILE", "data/facts.json"),

		DatabasePath: getEnv("DATABASE_PATH", "faktoteka.db"),

		CacheTTL:        getDurationEnv("CACHE_TTL", 15*time.Minute),
		RefreshInterval: getDurationEnv("REFRESH_INTERVAL", 6*time.Hour),
		RefreshEnabled:  getBoolEnv("REFRESH_ENABLED", true),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
