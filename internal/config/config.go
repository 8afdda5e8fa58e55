package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds server configuration, populated from the environment
type Config struct {
	Host string `env:"HUNT_HOST"`
	Port int    `env:"HUNT_PORT" envDefault:"8080"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"HUNT_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"HUNT_REDIS_URL"`

	// LogFormat is "text" or "json"
	LogFormat string `env:"HUNT_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"HUNT_LOG_LEVEL" envDefault:"info"`
	// LogFile enables rotating file output when set; stdout is always used
	LogFile string `env:"HUNT_LOG_FILE"`
}

// Load reads configuration from a .env file (if present) and the environment
func Load() (Config, error) {
	// Missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
